package model

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Classroom is owned by one tutor and joined by students through its code.
type Classroom struct {
	ID           uuid.UUID   `json:"id"`
	TutorID      uuid.UUID   `json:"tutor_id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Code         string      `json:"code"`
	Abbreviation string      `json:"abbreviation"`
	StudentIDs   []uuid.UUID `json:"students"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ClassroomSummary is what a student sees for a classroom, including its tutor.
type ClassroomSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Code         string    `json:"code"`
	Abbreviation string    `json:"abbreviation"`
	Tutor        TutorRef  `json:"tutor"`
	StudentCount int       `json:"student_count"`
}

// TutorRef is the subset of tutor fields shown alongside a classroom.
type TutorRef struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// CreateClassroomRequest is the payload for creating a classroom.
type CreateClassroomRequest struct {
	Name        string `json:"name" binding:"notblank,max=150"`
	Description string `json:"description" binding:"notblank,max=2000"`
	Code        string `json:"code" binding:"omitempty,alphanum,min=4,max=16"`
}

// Abbreviate derives a classroom abbreviation: the upper-cased first rune of
// every word, where words are runs of letters or digits.
// "Intro to Biology" → "ITB".
func Abbreviate(name string) string {
	var b strings.Builder
	inWord := false
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if !inWord {
				b.WriteRune(unicode.ToUpper(r))
				inWord = true
			}
			continue
		}
		inWord = false
	}
	return b.String()
}
