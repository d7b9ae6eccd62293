// Package catalog normalizes the raw upstream status feed into the
// session's set/part catalog.
package catalog

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/meur/reliquary/internal/models"
	"github.com/meur/reliquary/internal/slug"
)

// typeMap translates the feed's free-form type strings into categories.
// Anything unlisted falls back to Warframe.
var typeMap = map[string]models.SetCategory{
	"Warframe":         models.CategoryWarframe,
	"Primary":          models.CategoryPrimary,
	"Primary Weapon":   models.CategoryPrimary,
	"Secondary":        models.CategorySecondary,
	"Secondary Weapon": models.CategorySecondary,
	"Melee":            models.CategoryMelee,
	"Melee Weapon":     models.CategoryMelee,
}

// Build normalizes raw feed records into sets, preserving upstream
// order. Records with no parts are dropped, as are records whose set
// name yields no usable identifier. When two records normalize to the
// same set id the later one replaces the earlier in place, and a
// repeated part label inside one record falls back to the numeric
// external id for its suffix, so set and part ids are unique in the
// result.
func Build(records []models.RawStatusRecord) []models.Set {
	sets := make([]models.Set, 0, len(records))
	index := make(map[string]int, len(records)) // set id -> position in sets

	for _, rec := range records {
		if len(rec.Parts) == 0 {
			continue
		}

		name := strings.TrimSpace(rec.SetName)
		if !strings.HasSuffix(strings.ToLower(name), "prime") {
			name += " Prime"
		}
		id := slug.Make(name)
		if id == "" {
			log.Warn().Str("set", rec.SetName).Msg("Skipping record with unusable set name")
			continue
		}

		category, ok := typeMap[strings.TrimSpace(rec.Type)]
		if !ok {
			category = models.CategoryWarframe
		}
		vaulted := rec.Status == "1"

		parts := make([]models.Part, 0, len(rec.Parts))
		used := make(map[string]struct{}, len(rec.Parts))
		for _, raw := range rec.Parts {
			suffix := slug.Make(raw.Label)
			if suffix == "" {
				suffix = strconv.FormatInt(raw.ExternalID, 10)
			} else if _, dup := used[suffix]; dup {
				// repeated label within one record; the numeric id
				// keeps both parts addressable
				suffix = strconv.FormatInt(raw.ExternalID, 10)
			}
			if _, dup := used[suffix]; dup {
				// identical label and external id: a literal upstream
				// duplicate carries no extra information
				log.Warn().Str("set", rec.SetName).Str("part", raw.Label).Msg("Skipping duplicate part row")
				continue
			}
			used[suffix] = struct{}{}
			label := raw.Label
			if label == "" {
				label = strconv.FormatInt(raw.ExternalID, 10)
			}
			parts = append(parts, models.Part{
				ID:         id + "-" + suffix,
				Name:       label,
				SetID:      id,
				SetName:    name,
				Category:   category,
				IsVaulted:  vaulted,
				ExternalID: raw.ExternalID,
			})
		}

		set := models.Set{
			ID:        id,
			Name:      name,
			Category:  category,
			IsVaulted: vaulted,
			Parts:     parts,
		}
		if pos, seen := index[id]; seen {
			sets[pos] = set
			continue
		}
		index[id] = len(sets)
		sets = append(sets, set)
	}

	return sets
}
