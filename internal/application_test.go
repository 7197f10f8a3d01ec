package application

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/codec"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/config"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-timeline/testing/suite"
)

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name   string
		driver string
		want   any
	}{
		{name: "memory", driver: config.DriverMemory, want: &storage.MemoryStorage{}},
		{name: "sqlite", driver: config.DriverSQLite, want: &storage.SQLiteStorage{}},
		{name: "bolt", driver: config.DriverBolt, want: &storage.BoltStorage{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := &config.Config{Storage: config.Storage{
				Driver:     tt.driver,
				SQLitePath: filepath.Join(dir, "games.sqlite3"),
				BoltPath:   filepath.Join(dir, "games.bolt"),
			}}

			store, err := OpenStorage(ctx, conf)
			require.NoError(t, err)
			defer store.Close()

			assert.IsType(t, tt.want, store)
			require.NoError(t, store.Write(ctx, "k", "v"))
		})
	}

	t.Run("unknown driver", func(t *testing.T) {
		_, err := OpenStorage(ctx, &config.Config{Storage: config.Storage{Driver: "etcd"}})

		assert.Error(t, err)
	})
}

func TestHistoryCodec(t *testing.T) {
	conf := &config.Config{Storage: config.Storage{Codec: config.CodecYAML}}
	assert.IsType(t, codec.YAML[usecase.History]{}, HistoryCodec(conf))

	conf.Storage.Codec = config.CodecJSON
	assert.IsType(t, codec.JSON[usecase.History]{}, HistoryCodec(conf))
}

func TestOpenStorage_Redis(t *testing.T) {
	ctx, st := suite.New(t)

	conf := &config.Config{Storage: config.Storage{
		Driver: config.DriverRedis,
		Redis:  config.Redis{Host: st.Host, Port: st.Port},
	}}

	store, err := OpenStorage(ctx, conf)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Write(ctx, "tic-tac-toe:history:g1", "{}"))

	value, err := st.Storage.Get(ctx, "tic-tac-toe:history:g1").Result()
	require.NoError(t, err)
	assert.Equal(t, "{}", value)
}
