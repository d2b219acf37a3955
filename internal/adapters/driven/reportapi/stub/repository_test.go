package stub

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

func newTestRepository(opts ...Option) *Repository {
	n := 0
	base := []Option{
		WithCodeGenerator(func() string { return "123456" }),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		WithClock(func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }),
	}
	return NewRepository(append(base, opts...)...)
}

func TestRepository_RegistrationFlow(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	env, err := repo.RequestEmailCode(ctx, " Inspector@Example.com ")
	require.NoError(t, err)
	assert.True(t, env.OK)
	code, ok := repo.PendingCode("inspector@example.com")
	require.True(t, ok)
	assert.Equal(t, "123456", code)

	env, err = repo.VerifyEmailCode(ctx, domain.EmailVerification{Email: "inspector@example.com", Code: "123456"})
	require.NoError(t, err)
	assert.True(t, env.OK)

	env, err = repo.Register(ctx, domain.Registration{
		Email: "inspector@example.com", Name: "Kim", Password: "longenough",
	})
	require.NoError(t, err)
	assert.True(t, env.OK)

	env, err = repo.Register(ctx, domain.Registration{
		Email: "inspector@example.com", Name: "Kim", Password: "longenough",
	})
	require.NoError(t, err)
	assert.False(t, env.OK)
	assert.Equal(t, "email already registered", env.Error)
}

func TestRepository_RequestEmailCode_Invalid(t *testing.T) {
	repo := newTestRepository()

	env, err := repo.RequestEmailCode(context.Background(), "no-at-sign")
	require.NoError(t, err)
	assert.False(t, env.OK)
	assert.Equal(t, "invalid email", env.Error)
}

func TestRepository_VerifyEmailCode_Wrong(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()
	_, _ = repo.RequestEmailCode(ctx, "a@b.c")

	env, err := repo.VerifyEmailCode(ctx, domain.EmailVerification{Email: "a@b.c", Code: "000000"})
	require.NoError(t, err)
	assert.False(t, env.OK)
}

func TestRepository_Register_Rejections(t *testing.T) {
	tests := []struct {
		name string
		reg  domain.Registration
		want string
	}{
		{"no name", domain.Registration{Email: "a@b.c", Password: "longenough"}, "name is required"},
		{"short password", domain.Registration{Email: "a@b.c", Name: "A", Password: "short"}, "password must be at least 8 characters"},
		{"unverified", domain.Registration{Email: "a@b.c", Name: "A", Password: "longenough"}, "email not verified"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepository()
			env, err := repo.Register(context.Background(), tt.reg)
			require.NoError(t, err)
			assert.False(t, env.OK)
			assert.Equal(t, tt.want, env.Error)
		})
	}
}

func TestRepository_Buildings(t *testing.T) {
	repo := newTestRepository(WithBuildings(domain.Building{ID: "seed", Name: "Grand Hotel"}))
	ctx := context.Background()

	env, err := repo.CreateBuilding(ctx, domain.Building{Name: " City Hall ", Address: "1 Main St"})
	require.NoError(t, err)
	require.True(t, env.OK)
	var created domain.Building
	require.NoError(t, env.Decode(&created))
	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, "City Hall", created.Name)

	env, err = repo.GetBuildings(ctx, domain.BuildingQuery{Name: "hotel"})
	require.NoError(t, err)
	var found []domain.Building
	require.NoError(t, env.Decode(&found))
	require.Len(t, found, 1)
	assert.Equal(t, "seed", found[0].ID)

	env, err = repo.GetBuildings(ctx, domain.BuildingQuery{Limit: 1})
	require.NoError(t, err)
	require.NoError(t, env.Decode(&found))
	assert.Len(t, found, 1)
}

func TestRepository_CreateBuilding_RequiresName(t *testing.T) {
	repo := newTestRepository()

	env, err := repo.CreateBuilding(context.Background(), domain.Building{Name: "  "})
	require.NoError(t, err)
	assert.False(t, env.OK)
}

func TestRepository_StateIsPerInstance(t *testing.T) {
	a := newTestRepository()
	b := newTestRepository()
	ctx := context.Background()

	_, err := a.CreateBuilding(ctx, domain.Building{Name: "Only in A"})
	require.NoError(t, err)

	env, err := b.GetBuildings(ctx, domain.BuildingQuery{})
	require.NoError(t, err)
	var found []domain.Building
	require.NoError(t, env.Decode(&found))
	assert.Empty(t, found)
}

func TestRepository_SaveDraft(t *testing.T) {
	repo := newTestRepository()

	env, err := repo.SaveDraft(context.Background(), domain.Draft{Key: "r1/fan", Data: []byte(`{}`)})
	require.NoError(t, err)
	assert.True(t, env.OK)

	env, err = repo.SaveDraft(context.Background(), domain.Draft{})
	require.NoError(t, err)
	assert.False(t, env.OK)
}

func TestRepository_SubmitReport(t *testing.T) {
	repo := newTestRepository(WithBuildings(domain.Building{ID: "b1", Name: "Plant"}))
	ctx := context.Background()
	entry := domain.EquipmentEntry{Equipment: "fan", Document: domain.NewDocument()}

	env, err := repo.SubmitReport(ctx, domain.Report{BuildingID: "b1", Entries: []domain.EquipmentEntry{entry}})
	require.NoError(t, err)
	require.True(t, env.OK)
	assert.Equal(t, []string{"id-1"}, repo.Reports())

	env, err = repo.SubmitReport(ctx, domain.Report{BuildingID: "nope", Entries: []domain.EquipmentEntry{entry}})
	require.NoError(t, err)
	assert.Equal(t, "unknown building", env.Error)

	env, err = repo.SubmitReport(ctx, domain.Report{BuildingID: "b1"})
	require.NoError(t, err)
	assert.Equal(t, "report has no equipment entries", env.Error)
}

func TestRepository_ConcurrentCreate(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = repo.CreateBuilding(ctx, domain.Building{Name: fmt.Sprintf("b%d", i)})
		}(i)
	}
	wg.Wait()

	env, err := repo.GetBuildings(ctx, domain.BuildingQuery{})
	require.NoError(t, err)
	var found []domain.Building
	require.NoError(t, env.Decode(&found))
	assert.Len(t, found, 20)
}

func TestSixDigitCode(t *testing.T) {
	code := sixDigitCode()
	assert.Len(t, code, 6)
}
