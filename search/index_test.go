package search

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nlysenko/podboard/model"
	"github.com/stretchr/testify/require"
)

func TestFilterBodyShape(t *testing.T) {
	body := filterBody("guitar lesson", 7)

	want := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":     "guitar lesson",
						"fields":    []string{"title", "short_description", "long_description"},
						"fuzziness": "AUTO",
					},
				},
				"must_not": map[string]interface{}{
					"match": map[string]interface{}{
						"author_id": uint(7),
					},
				},
			},
		},
	}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Errorf("filter body mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterBodyIsSharedBetweenCountAndSearch(t *testing.T) {
	// The count body must be the search body minus the pagination window.
	count := filterBody("q", 1)
	searchBody := filterBody("q", 1)
	searchBody["from"] = 5
	searchBody["size"] = 5

	delete(searchBody, "from")
	delete(searchBody, "size")
	if diff := cmp.Diff(count, searchBody); diff != "" {
		t.Errorf("count and search filters diverged (-count +search):\n%s", diff)
	}
}

func TestFakeIndexRoundTrip(t *testing.T) {
	ctx := context.Background()
	idx := NewFakeIndex()

	posts := []*model.Post{
		{Id: 1, AuthorID: 1, Title: "Morning jazz", ShortDescription: "warmup"},
		{Id: 2, AuthorID: 2, Title: "Evening jazz", ShortDescription: "cooldown"},
		{Id: 3, AuthorID: 2, Title: "News digest", LongDescription: "jazz mention"},
	}
	for _, p := range posts {
		require.NoError(t, idx.IndexPost(ctx, p))
	}

	size, err := idx.Size(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, size)

	// Author exclusion applies to count and search identically.
	count, err := idx.Count(ctx, "jazz", 2)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	hits, err := idx.Search(ctx, "jazz", 0, 0, 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	// Windowing never reads past the filtered set.
	hits, err = idx.Search(ctx, "jazz", 0, 2, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	hits, err = idx.Search(ctx, "jazz", 0, 10, 10)
	require.NoError(t, err)
	require.Empty(t, hits)

	require.NoError(t, idx.DeletePost(ctx, 1))
	count, err = idx.Count(ctx, "jazz", 0)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}

func TestDisabledIndexReportsUnavailable(t *testing.T) {
	ctx := context.Background()
	idx := Disabled{}

	require.ErrorIs(t, idx.IndexPost(ctx, &model.Post{Id: 1}), ErrUnavailable)
	require.ErrorIs(t, idx.DeletePost(ctx, 1), ErrUnavailable)
	_, err := idx.Search(ctx, "q", 0, 0, 5)
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = idx.Count(ctx, "q", 0)
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = idx.Size(ctx)
	require.ErrorIs(t, err, ErrUnavailable)
}
