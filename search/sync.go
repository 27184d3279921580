package search

import (
	"context"

	"github.com/nlysenko/podboard/model"
	"github.com/nlysenko/podboard/store"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// SyncReport describes one wholesale resync run.
type SyncReport struct {
	EsSizeOld    int64 `json:"es_size_old"`
	EsSizeNew    int64 `json:"es_size_new"`
	PostgresSize int64 `json:"postgres_size"`
}

// SyncAll re-indexes every post from the relational store, overwriting
// whatever the index currently holds for each id. It repairs drift after
// index downtime; it is not incremental and is expected to run rarely,
// under operator control.
//
// Posts deleted from the relational store while the index was down are not
// removed by this pass; they stay as orphans until deleted again or the
// index is rebuilt from scratch.
func SyncAll(ctx context.Context, db *gorm.DB, idx Index) (*SyncReport, error) {
	report := SyncReport{}

	oldSize, err := idx.Size(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fail to read index size before sync")
	}
	report.EsSizeOld = oldSize

	err = store.ForEachPost(ctx, db, func(post *model.Post) error {
		return idx.IndexPost(ctx, post)
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to re-index posts")
	}

	newSize, err := idx.Size(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fail to read index size after sync")
	}
	report.EsSizeNew = newSize

	pgSize, err := store.PostsCount(ctx, db)
	if err != nil {
		return nil, err
	}
	report.PostgresSize = pgSize

	return &report, nil
}
