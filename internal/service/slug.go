package service

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const maxSlugLength = 200

// Slugify folds s to a lowercase ASCII, dash-separated identifier.
// Accents are stripped; fallback is returned when nothing usable remains.
func Slugify(s, fallback string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}

	out := b.String()
	if len(out) > maxSlugLength {
		out = strings.TrimRight(out[:maxSlugLength], "-")
	}
	if out == "" {
		return fallback
	}
	return out
}

// uniqueSlug appends -2, -3, ... to base until no other row of model uses it
func uniqueSlug(tx *gorm.DB, model interface{}, base string, exclude uuid.UUID) (string, error) {
	slug := base
	for n := 2; ; n++ {
		q := tx.Model(model).Where("slug = ?", slug)
		if exclude != uuid.Nil {
			q = q.Where("id <> ?", exclude)
		}
		var count int64
		if err := q.Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}
