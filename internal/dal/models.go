package dal

import "time"

type (
	WordPair struct {
		ID                 string
		UserID             string
		SourceWord         string
		Translation        string
		Sentences          []string
		Repetitions        int
		MaxRepetitions     int
		RepetitionInterval float64 // hours
		NextRepetitionDate time.Time
		CreatedAt          time.Time
		UpdatedAt          time.Time
	}

	// WordPairPatch holds the fields of an update request. Nil fields are left untouched.
	WordPairPatch struct {
		SourceWord         *string
		Translation        *string
		Sentences          *[]string
		NextRepetitionDate *time.Time
		Repetitions        *int
	}

	WordPairsFilter struct {
		Word   string // case-insensitive substring of source word or translation
		Offset uint64
		Limit  uint64
	}
)

func (p WordPairPatch) IsEmpty() bool {
	return p.SourceWord == nil &&
		p.Translation == nil &&
		p.Sentences == nil &&
		p.NextRepetitionDate == nil &&
		p.Repetitions == nil
}

// CompletionRatio is how close the pair is to being mastered.
func (w WordPair) CompletionRatio() float64 {
	if w.MaxRepetitions <= 0 {
		return 0
	}
	return float64(w.Repetitions) / float64(w.MaxRepetitions)
}

// IsDue reports whether the pair must be repeated at the given instant.
func (w WordPair) IsDue(now time.Time) bool {
	return !w.NextRepetitionDate.After(now) && w.Repetitions < w.MaxRepetitions
}
