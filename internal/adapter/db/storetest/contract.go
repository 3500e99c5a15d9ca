// Package storetest holds the behaviour every user.Repository implementation
// must share. Store packages call Run from their own tests.
package storetest

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "userapp/internal/domain/user"
	"userapp/internal/usecase/user"
	apperrors "userapp/pkg/errors"
)

// Factory returns an empty repository for one subtest.
type Factory func(t *testing.T) user.Repository

// Run executes the repository contract against repositories built by newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Run("SaveAssignsIDs", func(t *testing.T) { testSaveAssignsIDs(t, newRepo(t)) })
	t.Run("SaveOverwrites", func(t *testing.T) { testSaveOverwrites(t, newRepo(t)) })
	t.Run("SaveUnknownIDNotFound", func(t *testing.T) { testSaveUnknownID(t, newRepo(t)) })
	t.Run("FindByIDMissing", func(t *testing.T) { testFindByIDMissing(t, newRepo(t)) })
	t.Run("FindAllTracksLiveRecords", func(t *testing.T) { testFindAll(t, newRepo(t)) })
	t.Run("FindAllIsSnapshot", func(t *testing.T) { testFindAllSnapshot(t, newRepo(t)) })
	t.Run("FindAllPaged", func(t *testing.T) { testFindAllPaged(t, newRepo(t)) })
	t.Run("DeleteMissingNotFound", func(t *testing.T) { testDeleteMissing(t, newRepo(t)) })
	t.Run("SearchThreeFields", func(t *testing.T) { testSearchThreeFields(t, newRepo(t)) })
	t.Run("SearchCaseSensitive", func(t *testing.T) { testSearchCaseSensitive(t, newRepo(t)) })
	t.Run("SearchLiteralWildcards", func(t *testing.T) { testSearchLiteralWildcards(t, newRepo(t)) })
	t.Run("SearchPagedKeyExample", func(t *testing.T) { testSearchPagedKeyExample(t, newRepo(t)) })
	t.Run("SearchPagedPartitions", func(t *testing.T) { testSearchPagedPartitions(t, newRepo(t)) })
	t.Run("SearchPagedEmptyQuery", func(t *testing.T) { testSearchPagedEmptyQuery(t, newRepo(t)) })
	t.Run("SearchPagedInvalidPageable", func(t *testing.T) { testSearchPagedInvalid(t, newRepo(t)) })
	t.Run("HugePageIsPastEnd", func(t *testing.T) { testHugePage(t, newRepo(t)) })
}

func mustSave(t *testing.T, repo user.Repository, first, last, email string) domain.User {
	t.Helper()
	u, err := repo.Save(context.Background(), &domain.User{FirstName: first, LastName: last, Email: email})
	require.NoError(t, err)
	require.Positive(t, u.ID)
	return *u
}

func ids(users []domain.User) []int64 {
	out := make([]int64, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

func testSaveAssignsIDs(t *testing.T, repo user.Repository) {
	a := mustSave(t, repo, "firstName", "lastName", "email@gmail.com")
	b := mustSave(t, repo, "firstNameNew", "lastNameNew", "emailNew@gmail.com")

	assert.NotEqual(t, a.ID, b.ID)
	assert.Less(t, a.ID, b.ID)

	got, err := repo.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a, *got)
}

func testSaveOverwrites(t *testing.T, repo user.Repository) {
	ctx := context.Background()
	u := mustSave(t, repo, "firstName", "lastName", "email@gmail.com")

	u.Email = "changedName@test.com"
	saved, err := repo.Save(ctx, &u)
	require.NoError(t, err)
	assert.Equal(t, "changedName@test.com", saved.Email)
	assert.Equal(t, u.ID, saved.ID)

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, *got)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testSaveUnknownID(t *testing.T, repo user.Repository) {
	_, err := repo.Save(context.Background(), &domain.User{ID: 999, FirstName: "aa", LastName: "bb", Email: "a@b.com"})
	assert.True(t, apperrors.IsNotFound(err), "got %v", err)
}

func testFindByIDMissing(t *testing.T, repo user.Repository) {
	got, err := repo.FindByID(context.Background(), 12345)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testFindAll(t *testing.T, repo user.Repository) {
	ctx := context.Background()
	a := mustSave(t, repo, "aa", "aa", "a@x.com")
	b := mustSave(t, repo, "bb", "bb", "b@x.com")
	c := mustSave(t, repo, "cc", "cc", "c@x.com")

	require.NoError(t, repo.Delete(ctx, b.ID))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.User{a, c}, all)

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testFindAllSnapshot(t *testing.T, repo user.Repository) {
	ctx := context.Background()
	a := mustSave(t, repo, "aa", "aa", "a@x.com")

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)

	mustSave(t, repo, "bb", "bb", "b@x.com")
	a.FirstName = "changed"
	_, err = repo.Save(ctx, &a)
	require.NoError(t, err)

	require.Len(t, all, 1)
	assert.Equal(t, "aa", all[0].FirstName)
}

func testFindAllPaged(t *testing.T, repo user.Repository) {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		mustSave(t, repo, fmt.Sprintf("first%d", i), "last", fmt.Sprintf("u%d@x.com", i))
	}

	page, err := repo.FindAllPaged(ctx, domain.Pageable{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "first2", page.Content[0].FirstName)
	assert.Equal(t, "first3", page.Content[1].FirstName)

	page, err = repo.FindAllPaged(ctx, domain.Pageable{Page: 7, Size: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(5), page.TotalElements)

	_, err = repo.FindAllPaged(ctx, domain.Pageable{Page: 0, Size: 0})
	assert.True(t, apperrors.IsValidation(err))
}

func testDeleteMissing(t *testing.T, repo user.Repository) {
	err := repo.Delete(context.Background(), 77)

	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "user", nf.Resource)
	assert.Equal(t, int64(77), nf.ID)
}

func testSearchThreeFields(t *testing.T, repo user.Repository) {
	ctx := context.Background()
	u1 := mustSave(t, repo, "firstName1", "lastName1:keyword", "email1@gmail.com")
	u2 := mustSave(t, repo, "firstName2:keyword", "lastName2", "email2@gmail.com")
	mustSave(t, repo, "firstName3", "lastName3", "email3@gmail.com")
	u4 := mustSave(t, repo, "firstName4", "lastName4", "keyword4@gmail.com")

	found, err := repo.Search(ctx, "keyword")
	require.NoError(t, err)
	assert.Equal(t, []int64{u1.ID, u2.ID, u4.ID}, ids(found))

	page, err := repo.SearchPaged(ctx, "keyword", domain.Pageable{Page: 0, Size: 4})
	require.NoError(t, err)
	assert.Equal(t, []int64{u1.ID, u2.ID, u4.ID}, ids(page.Content))

	found, err = repo.Search(ctx, "nothing-matches")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func testSearchCaseSensitive(t *testing.T, repo user.Repository) {
	ctx := context.Background()
	u := mustSave(t, repo, "Ramesh", "Fadatare", "ramesh@gmail.com")

	found, err := repo.Search(ctx, "Ramesh")
	require.NoError(t, err)
	assert.Equal(t, []int64{u.ID}, ids(found))

	found, err = repo.Search(ctx, "FADATARE")
	require.NoError(t, err)
	assert.Empty(t, found)

	page, err := repo.SearchPaged(ctx, "GMAIL", domain.Pageable{Page: 0, Size: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(0), page.TotalElements)
}

func testSearchLiteralWildcards(t *testing.T, repo user.Repository) {
	ctx := context.Background()
	pct := mustSave(t, repo, "John%Test", "Smith", "john@example.com")
	under := mustSave(t, repo, "Jane_Test", "Smith", "jane@example.com")
	mustSave(t, repo, "JaneXTest", "Smith", "janex@example.com")
	slash := mustSave(t, repo, `Back\slash`, "Smith", "back@example.com")

	found, err := repo.Search(ctx, "%")
	require.NoError(t, err)
	assert.Equal(t, []int64{pct.ID}, ids(found))

	found, err = repo.Search(ctx, "Jane_")
	require.NoError(t, err)
	assert.Equal(t, []int64{under.ID}, ids(found))

	found, err = repo.Search(ctx, `k\s`)
	require.NoError(t, err)
	assert.Equal(t, []int64{slash.ID}, ids(found))
}

func testSearchPagedKeyExample(t *testing.T, repo user.Repository) {
	ctx := context.Background()
	u1 := mustSave(t, repo, "key", "Silva", "silva@x.com")
	u2 := mustSave(t, repo, "Tony", "key", "tony@x.com")

	page, err := repo.SearchPaged(ctx, "key", domain.Pageable{Page: 0, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, []int64{u1.ID, u2.ID}, ids(page.Content))
	assert.Equal(t, int64(2), page.TotalElements)

	page, err = repo.SearchPaged(ctx, "key", domain.Pageable{Page: 0, Size: 1})
	require.NoError(t, err)
	assert.Equal(t, []int64{u1.ID}, ids(page.Content))
	assert.Equal(t, 2, page.TotalPages)

	page, err = repo.SearchPaged(ctx, "key", domain.Pageable{Page: 1, Size: 1})
	require.NoError(t, err)
	assert.Equal(t, []int64{u2.ID}, ids(page.Content))

	page, err = repo.SearchPaged(ctx, "key", domain.Pageable{Page: 2, Size: 1})
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(2), page.TotalElements)
}

func testSearchPagedPartitions(t *testing.T, repo user.Repository) {
	ctx := context.Background()
	var expected []int64
	for i := 0; i < 11; i++ {
		last := "Other"
		if i%2 == 0 {
			last = "Match"
		}
		u := mustSave(t, repo, fmt.Sprintf("first%02d", i), last, fmt.Sprintf("u%d@x.com", i))
		if last == "Match" {
			expected = append(expected, u.ID)
		}
	}

	for _, size := range []int{1, 2, 3, 6, 10} {
		var seen []int64
		first, err := repo.SearchPaged(ctx, "Match", domain.Pageable{Page: 0, Size: size})
		require.NoError(t, err)
		for page := 0; page < first.TotalPages; page++ {
			p, err := repo.SearchPaged(ctx, "Match", domain.Pageable{Page: page, Size: size})
			require.NoError(t, err)
			assert.LessOrEqual(t, len(p.Content), size)
			seen = append(seen, ids(p.Content)...)
		}
		assert.Equal(t, expected, seen, "size=%d", size)
	}
}

func testSearchPagedEmptyQuery(t *testing.T, repo user.Repository) {
	ctx := context.Background()
	a := mustSave(t, repo, "aa", "aa", "a@x.com")
	b := mustSave(t, repo, "bb", "bb", "b@x.com")
	mustSave(t, repo, "cc", "cc", "c@x.com")

	page, err := repo.SearchPaged(ctx, "", domain.Pageable{Page: 0, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, []domain.User{a, b}, page.Content)
	assert.Equal(t, int64(3), page.TotalElements)

	all, err := repo.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func testSearchPagedInvalid(t *testing.T, repo user.Repository) {
	for _, p := range []domain.Pageable{{Page: -1, Size: 1}, {Page: 0, Size: 0}, {Page: 0, Size: -3}} {
		page, err := repo.SearchPaged(context.Background(), "", p)
		assert.Nil(t, page)
		assert.True(t, apperrors.IsValidation(err), "pageable %+v", p)
	}
}

func testHugePage(t *testing.T, repo user.Repository) {
	ctx := context.Background()
	mustSave(t, repo, "key", "Silva", "silva@x.com")
	mustSave(t, repo, "Tony", "key", "tony@x.com")
	mustSave(t, repo, "keyser", "Soze", "k@x.com")

	// page*size wraps to zero, a small positive and a negative number
	for _, p := range []domain.Pageable{
		{Page: math.MaxInt/2 + 1, Size: 4},
		{Page: math.MaxInt/2 + 1, Size: 2},
		{Page: math.MaxInt, Size: math.MaxInt},
	} {
		page, err := repo.SearchPaged(ctx, "key", p)
		require.NoError(t, err, "pageable %+v", p)
		assert.Empty(t, page.Content, "pageable %+v", p)
		assert.Equal(t, int64(3), page.TotalElements)
		assert.Equal(t, p.Page, page.Number)
		assert.True(t, page.Last)

		page, err = repo.FindAllPaged(ctx, p)
		require.NoError(t, err, "pageable %+v", p)
		assert.Empty(t, page.Content, "pageable %+v", p)
		assert.Equal(t, int64(3), page.TotalElements)
	}

	page, err := repo.FindAllPaged(ctx, domain.Pageable{Page: 0, Size: math.MaxInt})
	require.NoError(t, err)
	assert.Len(t, page.Content, 3)
	assert.Equal(t, 1, page.TotalPages)
}
