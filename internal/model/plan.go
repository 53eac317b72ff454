package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Plan struct {
	ID        string
	Name      string
	Category  Category
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Plan) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("model: plan id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("model: plan name is required")
	}
	if !p.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, p.Category)
	}
	if p.CreatedAt.IsZero() {
		return errors.New("model: plan created_at is required")
	}
	if p.UpdatedAt.Before(p.CreatedAt) {
		return errors.New("model: plan updated_at must not precede created_at")
	}
	return nil
}
