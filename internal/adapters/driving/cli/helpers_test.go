package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driven/export/xlsx"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driven/photo/fs"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driven/reportapi/stub"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driven/storage/memory"
	"github.com/enplussmartenergy/erp-sub001/internal/calculators"
	"github.com/enplussmartenergy/erp-sub001/internal/catalog"
	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/services"
)

type testEnv struct {
	store *memory.DraftStore
	repo  *stub.Repository
}

// setupTestServices wires real services over in-memory adapters and resets
// them when the test ends.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()
	reg := calculators.NewDefaultRegistry(calculators.DefaultOptions())
	cat, err := catalog.Builtin(reg)
	require.NoError(t, err)

	store := memory.NewDraftStore()
	repo := stub.NewRepository(
		stub.WithCodeGenerator(func() string { return "123456" }),
		stub.WithIDGenerator(func() string { return "b1" }),
	)
	drafts := services.NewDraftService(store, cat, nil)

	SetServices(Services{
		Catalog: services.NewCatalogService(cat, reg, nil),
		Drafts:  drafts,
		Sessions: services.NewSessionService(drafts, cat, reg, fs.NewReader(0),
			services.WithAutosave(domain.AutosaveSettings{Burst: 1})),
		Reports:  services.NewReportService(repo, drafts, store, cat, reg, xlsx.NewExporter()),
		Settings: services.NewSettingsService(memory.NewConfigStore()),
	})
	t.Cleanup(func() { SetServices(Services{}) })

	return &testEnv{store: store, repo: repo}
}

// execute runs the root command with args and stdin, returning everything
// written to stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag of the tree to its default so values do
// not leak between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
