package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// ScoreRecord is one stored score, unique per (email, course_name).
// The row id stays internal and is never marshalled.
type ScoreRecord struct {
	ID         int64     `db:"id" json:"-"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	CourseName string    `db:"course_name" json:"courseName"`
	Score      float64   `db:"score" json:"score"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// ScoreReport is the projection returned by fetch responses.
type ScoreReport struct {
	Name       string    `json:"name"`
	CourseName string    `json:"courseName"`
	Score      float64   `json:"score"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (r *ScoreRecord) Report() ScoreReport {
	return ScoreReport{
		Name:       r.Name,
		CourseName: r.CourseName,
		Score:      r.Score,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// RawScore holds the score field as submitted, without judging it.
// Decoding never fails on a malformed score; the numeric check lives in
// Submission.Validate, the one coercion point, so "high" yields a field
// error instead of a decode error.
type RawScore string

func (s *RawScore) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = RawScore(str)
		return nil
	}
	if string(data) == "null" {
		*s = ""
		return nil
	}
	*s = RawScore(data)
	return nil
}

// Submission is the raw submit payload. Score accepts both 95 and "95";
// it is coerced to float64 exactly once, in Validate.
type Submission struct {
	Name       string   `json:"name" validate:"required"`
	Email      string   `json:"email" validate:"required"`
	CourseName string   `json:"courseName" validate:"required"`
	Score      RawScore `json:"score"`

	score float64
}

var jsonFieldNames = map[string]string{
	"Name":       "name",
	"Email":      "email",
	"CourseName": "courseName",
}

func (s *Submission) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return fmt.Errorf("%s is required", jsonFieldNames[errs[0].Field()])
		}
		return err
	}

	if s.Score == "" {
		return fmt.Errorf("score is required")
	}
	score, err := strconv.ParseFloat(string(s.Score), 64)
	if err != nil {
		return fmt.Errorf("score must be a number")
	}
	s.score = score

	return nil
}

// Record builds the row to upsert. Call only after Validate succeeded.
// createdAt equals updatedAt here; on the update arm of the upsert the
// stored createdAt is preserved.
func (s *Submission) Record(now time.Time) *ScoreRecord {
	return &ScoreRecord{
		Name:       s.Name,
		Email:      s.Email,
		CourseName: s.CourseName,
		Score:      s.score,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
