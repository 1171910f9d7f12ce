package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"linksphere/internal/models"
	"linksphere/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterAudit compares the denormalized post counters with their fact rows.
type CounterAudit interface {
	Check(ctx context.Context) ([]models.CounterDrift, error)
	Repair(ctx context.Context) ([]models.CounterDrift, error)
}

type counterSource struct {
	column string
	table  string
}

var auditedCounters = []counterSource{
	{column: "likes_count", table: "post_likes"},
	{column: "comments_count", table: "comments"},
	{column: "saves_count", table: "post_saves"},
}

type counterAudit struct {
	db *gorm.DB
}

// NewCounterAudit creates a counter audit over db.
func NewCounterAudit(db *gorm.DB) CounterAudit {
	return &counterAudit{db: db}
}

// Check returns every post counter that differs from the number of fact rows
// behind it.
func (a *counterAudit) Check(ctx context.Context) ([]models.CounterDrift, error) {
	drifts, err := findDrift(a.db.WithContext(ctx))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.CounterDrift.Set(float64(len(drifts)))
	return drifts, nil
}

// Repair rewrites drifting counters from the fact tables in one transaction
// and returns what was corrected. Each candidate post is locked and recounted
// before its counter is written, so likes or comments landing between the scan
// and the write are not lost.
func (a *counterAudit) Repair(ctx context.Context) ([]models.CounterDrift, error) {
	repaired := []models.CounterDrift{}
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		candidates, err := findDrift(tx)
		if err != nil {
			return err
		}
		for _, c := range candidates {
			d, changed, err := repairCounter(tx, c.PostID, c.Counter)
			if err != nil {
				return err
			}
			if changed {
				repaired = append(repaired, d)
			}
		}
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.CounterDrift.Set(0)
	return repaired, nil
}

// repairCounter locks the post, recounts its fact rows and rewrites column
// when the two still differ. A post deleted since the scan is skipped.
func repairCounter(tx *gorm.DB, postID uint, column string) (models.CounterDrift, bool, error) {
	src, ok := counterSourceFor(column)
	if !ok {
		return models.CounterDrift{}, false, fmt.Errorf("audit: unknown counter %q", column)
	}

	var locked struct{ Stored int64 }
	err := tx.Model(&models.Post{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select(column+" AS stored").
		Where("id = ?", postID).
		Take(&locked).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CounterDrift{}, false, nil
	}
	if err != nil {
		return models.CounterDrift{}, false, fmt.Errorf("lock post %d: %w", postID, err)
	}

	var actual int64
	if err := tx.Table(src.table).Where("post_id = ?", postID).Count(&actual).Error; err != nil {
		return models.CounterDrift{}, false, fmt.Errorf("recount %s: %w", src.table, err)
	}
	if actual == locked.Stored {
		return models.CounterDrift{}, false, nil
	}

	if err := tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn(column, actual).Error; err != nil {
		return models.CounterDrift{}, false, err
	}
	return models.CounterDrift{
		PostID:  postID,
		Counter: column,
		Stored:  locked.Stored,
		Actual:  actual,
	}, true, nil
}

func counterSourceFor(column string) (counterSource, bool) {
	for _, src := range auditedCounters {
		if src.column == column {
			return src, true
		}
	}
	return counterSource{}, false
}

func findDrift(db *gorm.DB) ([]models.CounterDrift, error) {
	drifts := []models.CounterDrift{}
	for _, src := range auditedCounters {
		var rows []struct {
			PostID uint
			Stored int64
			Actual int64
		}
		query := fmt.Sprintf(
			`SELECT p.id AS post_id, p.%[1]s AS stored, COUNT(f.id) AS actual
			FROM posts p LEFT JOIN %[2]s f ON f.post_id = p.id
			GROUP BY p.id, p.%[1]s
			HAVING p.%[1]s <> COUNT(f.id)`,
			src.column, src.table,
		)
		if err := db.Raw(query).Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("audit %s: %w", src.column, err)
		}
		for _, row := range rows {
			drifts = append(drifts, models.CounterDrift{
				PostID:  row.PostID,
				Counter: src.column,
				Stored:  row.Stored,
				Actual:  row.Actual,
			})
		}
	}

	sort.SliceStable(drifts, func(i, j int) bool { return drifts[i].PostID < drifts[j].PostID })
	return drifts, nil
}
