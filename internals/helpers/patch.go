package helper

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

/* =========================================================
   PATCH FIELD: tri-state (absent | null | value)
   ========================================================= */

type PatchField[T any] struct {
	Present bool
	Value   *T
}

func (p *PatchField[T]) UnmarshalJSON(b []byte) error {
	p.Present = true
	if string(b) == "null" {
		p.Value = nil
		return nil
	}
	var v T
	if err := sonic.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

// Set reports whether a non-null value was sent.
func (p PatchField[T]) Set() bool { return p.Present && p.Value != nil }

// Apply writes the value into dst when present and non-null.
func (p PatchField[T]) Apply(dst *T) {
	if p.Set() {
		*dst = *p.Value
	}
}

// ApplyNullable writes into a pointer field, clearing it on explicit null.
func (p PatchField[T]) ApplyNullable(dst **T) {
	if !p.Present {
		return
	}
	if p.Value == nil {
		*dst = nil
		return
	}
	v := *p.Value
	*dst = &v
}

/* =========================================================
   Audit columns shared by every entity
   ========================================================= */

// Audit is embedded into models; gorm fills CreatedOn/UpdatedOn.
type Audit struct {
	CreatedBy *uuid.UUID `gorm:"column:created_by;type:uuid"                  json:"created_by,omitempty"`
	CreatedOn time.Time  `gorm:"column:created_on;not null;autoCreateTime" json:"created_on"`
	UpdatedBy *uuid.UUID `gorm:"column:updated_by;type:uuid"                  json:"updated_by,omitempty"`
	UpdatedOn time.Time  `gorm:"column:updated_on;not null;autoUpdateTime" json:"updated_on"`
}

func NewAudit(by uuid.UUID) Audit {
	now := time.Now().UTC()
	return Audit{CreatedBy: &by, CreatedOn: now, UpdatedBy: &by, UpdatedOn: now}
}

func (a *Audit) Touch(by uuid.UUID) {
	a.UpdatedBy = &by
	a.UpdatedOn = time.Now().UTC()
}

func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
