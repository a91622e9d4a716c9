package models

import "time"

// GradeType distinguishes draft from final ledger entries.
type GradeType string

const (
	// GradeTypeDraft marks an editable, provisional record.
	GradeTypeDraft GradeType = "draft"
	// GradeTypeFinal marks a locked record, editable again only via unlock.
	GradeTypeFinal GradeType = "final"
)

// GradeStatus is the ledger status derived for one student.
type GradeStatus string

const (
	// GradeStatusNone means the student has no ledger entry at all.
	GradeStatusNone GradeStatus = "none"
	// GradeStatusDraft means a draft exists and no final does.
	GradeStatusDraft GradeStatus = "draft"
	// GradeStatusFinal means a final grade exists.
	GradeStatusFinal GradeStatus = "final"
)

// Feedback holds the instructor's free-text commentary on one record.
type Feedback struct {
	General      string `json:"general"`
	Strengths    string `json:"strengths"`
	Improvements string `json:"improvements"`
}

// Attachment references a file attached to a grade record. Content lives with
// the record for the session lifetime only.
type Attachment struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// LateSelection records which lateness level of which policy applies.
type LateSelection struct {
	Level    string `json:"level"`
	PolicyID string `json:"policy_id"`
}

// CriterionGrade captures the selected achievement level and comments for one
// criterion. An empty SelectedLevel means the criterion is ungraded.
type CriterionGrade struct {
	SelectedLevel  string `json:"selected_level"`
	CustomComments string `json:"custom_comments"`
}

// GradeMetadata carries bookkeeping values for a record.
type GradeMetadata struct {
	GradedDate *time.Time `json:"graded_date"`
	GradedBy   string     `json:"graded_by"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// GradeRecord is one student's working grade: per-criterion selections,
// feedback, attachments, and the applicable late policy selection.
type GradeRecord struct {
	StudentID     string                    `json:"student_id"`
	Course        string                    `json:"course"`
	Assignment    string                    `json:"assignment"`
	Feedback      Feedback                  `json:"feedback"`
	Attachments   []Attachment              `json:"attachments"`
	VideoLinks    []string                  `json:"video_links"`
	Late          LateSelection             `json:"late_policy"`
	RubricGrading map[string]CriterionGrade `json:"rubric_grading"`
	Metadata      GradeMetadata             `json:"metadata"`
}

// Clone produces an independent deep copy of the record. Debounced autosaves
// and unlock both rely on copy semantics so later edits cannot leak into an
// already captured snapshot.
func (g GradeRecord) Clone() GradeRecord {
	out := g
	if g.Attachments != nil {
		out.Attachments = make([]Attachment, len(g.Attachments))
		copy(out.Attachments, g.Attachments)
	}
	if g.VideoLinks != nil {
		out.VideoLinks = make([]string, len(g.VideoLinks))
		copy(out.VideoLinks, g.VideoLinks)
	}
	if g.RubricGrading != nil {
		out.RubricGrading = make(map[string]CriterionGrade, len(g.RubricGrading))
		for k, v := range g.RubricGrading {
			out.RubricGrading[k] = v
		}
	}
	if g.Metadata.GradedDate != nil {
		graded := *g.Metadata.GradedDate
		out.Metadata.GradedDate = &graded
	}
	return out
}
