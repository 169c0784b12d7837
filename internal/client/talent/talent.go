// Package talent holds the "get hired" intake form and its saved draft.
package talent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/dmitrijs2005/skillip/internal/client/repositories/localstore"
)

const DraftKey = "talent_form"

// Catalog lists the skills a candidate can pick, in display order.
var Catalog = []string{
	"JavaScript",
	"Python",
	"Java",
	"React",
	"Node.js",
	"SQL",
	"HTML/CSS",
	"TypeScript",
	"AWS",
	"Docker",
}

type Form struct {
	Username string   `json:"username"`
	Phone    string   `json:"phone"`
	Skills   []string `json:"skills"`
}

// Parse reads a submitted form. Unknown skills are dropped and the rest
// are returned in catalog order without duplicates.
func Parse(v url.Values) Form {
	picked := v["skills"]
	skills := make([]string, 0, len(picked))
	for _, s := range Catalog {
		if slices.Contains(picked, s) {
			skills = append(skills, s)
		}
	}
	return Form{
		Username: strings.TrimSpace(v.Get("username")),
		Phone:    strings.TrimSpace(v.Get("phone")),
		Skills:   skills,
	}
}

func (f Form) Has(skill string) bool {
	return slices.Contains(f.Skills, skill)
}

// Drafts persists the form between visits.
type Drafts struct {
	repo localstore.Repository
}

func NewDrafts(repo localstore.Repository) *Drafts {
	return &Drafts{repo: repo}
}

// Load returns the saved draft, or an empty form when there is none.
func (d *Drafts) Load(ctx context.Context) (Form, error) {
	raw, err := d.repo.Get(ctx, DraftKey)
	if err != nil {
		return Form{}, err
	}
	if raw == nil {
		return Form{}, nil
	}
	var f Form
	if err := json.Unmarshal(raw, &f); err != nil {
		return Form{}, fmt.Errorf("decode talent draft: %w", err)
	}
	return f, nil
}

func (d *Drafts) Save(ctx context.Context, f Form) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return d.repo.Set(ctx, DraftKey, raw)
}

func (d *Drafts) Clear(ctx context.Context) error {
	return d.repo.Delete(ctx, DraftKey)
}
