package search

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/nlysenko/podboard/model"
	"github.com/nlysenko/podboard/utils"
)

// FakeIndex is an in-memory Index for tests. Matching is a case-insensitive
// substring check over the three text fields instead of real relevance
// ranking, but the filter/window contract is the same as PostIndex: Count
// and Search see the identical filtered set, Search additionally windows.
type FakeIndex struct {
	mu   sync.Mutex
	docs map[uint]*model.Post

	// Fail makes every operation return ErrUnavailable, simulating index
	// downtime for degraded-mode tests.
	Fail bool
}

func NewFakeIndex() *FakeIndex {
	return &FakeIndex{docs: make(map[uint]*model.Post)}
}

func (f *FakeIndex) IndexPost(ctx context.Context, post *model.Post) error {
	if f.Fail {
		return ErrUnavailable
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *post
	f.docs[post.Id] = &copied
	return nil
}

func (f *FakeIndex) DeletePost(ctx context.Context, postID uint) error {
	if f.Fail {
		return ErrUnavailable
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, postID)
	return nil
}

func (f *FakeIndex) matches(ctx context.Context, query string, excludeAuthor uint) []*model.Post {
	f.mu.Lock()
	defer f.mu.Unlock()

	needle := strings.ToLower(query)
	matched := []*model.Post{}
	for _, post := range f.docs {
		if post.AuthorID == excludeAuthor {
			continue
		}
		haystack := strings.ToLower(post.Title + " " + post.ShortDescription + " " + post.LongDescription)
		if strings.Contains(haystack, needle) {
			matched = append(matched, post)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Id < matched[j].Id })
	return matched
}

func (f *FakeIndex) Search(ctx context.Context, query string, excludeAuthor uint, from int, size int) ([]*model.Post, error) {
	if f.Fail {
		return nil, ErrUnavailable
	}
	matched := f.matches(ctx, query, excludeAuthor)
	if from >= len(matched) {
		return []*model.Post{}, nil
	}
	end := utils.Min(from+size, len(matched))
	return matched[from:end], nil
}

func (f *FakeIndex) Count(ctx context.Context, query string, excludeAuthor uint) (int64, error) {
	if f.Fail {
		return 0, ErrUnavailable
	}
	return int64(len(f.matches(ctx, query, excludeAuthor))), nil
}

func (f *FakeIndex) Size(ctx context.Context) (int64, error) {
	if f.Fail {
		return 0, ErrUnavailable
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.docs)), nil
}
