package model

// PronunciationScore is one graded pronunciation attempt, kept for
// progress curves.
type PronunciationScore struct {
	BaseModel
	UserID  uint    `gorm:"index" json:"userId"`
	Target  string  `gorm:"size:255" json:"target"`
	Score   float64 `json:"score"`
	Correct bool    `json:"correct"`
}

func (PronunciationScore) TableName() string {
	return "pronunciation_scores"
}
