package service_test

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openvenue/eventd/internal/service"
	"github.com/openvenue/eventd/internal/store"
	"github.com/openvenue/eventd/internal/store/drivers/sqlite"
	"github.com/openvenue/eventd/pkg/jwtx"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.Join(t.TempDir(), "test.db"))
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())

	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newTestCodec(t *testing.T) *jwtx.Codec {
	t.Helper()

	codec, err := jwtx.NewCodec(
		[]byte("0123456789abcdef0123456789abcdef"),
		"eventd-test", "eventd-test",
		time.Minute,
	)
	require.NoError(t, err)
	return codec
}

// newAuthStack wires a full auth service over a fresh store with the role
// set seeded, mirroring the startup wiring.
func newAuthStack(t *testing.T) (*service.AuthService, store.Store) {
	t.Helper()

	st := newTestStore(t)
	directory := &service.DirectoryService{Store: st}

	seeder := &service.SeederService{Store: st, Directory: directory}
	require.NoError(t, seeder.Seed(t.Context()))

	auth := &service.AuthService{
		Codec:     newTestCodec(t),
		Sessions:  &service.SessionService{Store: st},
		Directory: directory,
		Store:     st,
	}
	return auth, st
}
