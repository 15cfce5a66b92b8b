package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemStoreInsertAssignsSequentialIDs(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	p1, err := s.Insert(ctx, Product{Name: "Keyboard", Category: "tech", PriceCents: 4990})
	require.NoError(t, err)
	require.Equal(t, int64(1), p1.ID)
	require.False(t, p1.CreatedAt.IsZero())

	p2, err := s.Insert(ctx, Product{Name: "Mouse", Category: "tech", PriceCents: 1990})
	require.NoError(t, err)
	require.Equal(t, int64(2), p2.ID)

	// Deleting the max id reuses it, matching max(existing)+1.
	require.NoError(t, s.Delete(ctx, 2))
	p3, err := s.Insert(ctx, Product{Name: "Desk", Category: "furniture", PriceCents: 12900})
	require.NoError(t, err)
	require.Equal(t, int64(2), p3.ID)
}

func TestMemStoreListRecent(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := s.Insert(ctx, Product{Name: "p", Category: "c", PriceCents: 100})
		require.NoError(t, err)
	}

	recent, err := s.ListRecent(ctx, RecentLimit)
	require.NoError(t, err)
	require.Len(t, recent, RecentLimit)
	require.Equal(t, int64(10), recent[0].ID)
	require.Equal(t, int64(3), recent[RecentLimit-1].ID)
}

func TestMemStoreListByCategory(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, err := s.Insert(ctx, Product{Name: "shirt", Category: "clothes", PriceCents: 100})
		require.NoError(t, err)
	}
	_, err := s.Insert(ctx, Product{Name: "lamp", Category: "home", PriceCents: 100})
	require.NoError(t, err)

	clothes, err := s.ListByCategory(ctx, "clothes", CategoryLimit)
	require.NoError(t, err)
	require.Len(t, clothes, CategoryLimit)
	require.Equal(t, int64(1), clothes[0].ID)

	home, err := s.ListByCategory(ctx, "home", CategoryLimit)
	require.NoError(t, err)
	require.Len(t, home, 1)

	none, err := s.ListByCategory(ctx, "missing", CategoryLimit)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestMemStoreDelete(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	p1, _ := s.Insert(ctx, Product{Name: "a", Category: "c", PriceCents: 100})
	p2, _ := s.Insert(ctx, Product{Name: "b", Category: "c", PriceCents: 100})

	require.NoError(t, s.Delete(ctx, p1.ID))
	require.ErrorIs(t, s.Delete(ctx, p1.ID), ErrNotFound)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, p2.ID, all[0].ID)
}
