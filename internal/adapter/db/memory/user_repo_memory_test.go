package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userapp/internal/adapter/db/storetest"
	domain "userapp/internal/domain/user"
	"userapp/internal/usecase/user"
)

func TestUserRepoMemory_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) user.Repository {
		return NewUserRepoMemory()
	})
}

func TestUserRepoMemory_ConcurrentCreatesGetUniqueIDs(t *testing.T) {
	repo := NewUserRepoMemory()

	const n = 50
	var wg sync.WaitGroup
	idsCh := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := repo.Save(context.Background(), &domain.User{FirstName: "aa", LastName: "bb", Email: "a@b.com"})
			if err == nil {
				idsCh <- u.ID
			}
		}()
	}
	wg.Wait()
	close(idsCh)

	seen := make(map[int64]bool)
	for id := range idsCh {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestUserRepoMemory_ReturnedUsersAreCopies(t *testing.T) {
	repo := NewUserRepoMemory()
	ctx := context.Background()

	saved, err := repo.Save(ctx, &domain.User{FirstName: "aa", LastName: "bb", Email: "a@b.com"})
	require.NoError(t, err)
	saved.FirstName = "mutated"

	got, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "aa", got.FirstName)
}
