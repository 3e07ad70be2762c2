package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithMultiStatement(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{dsn: "clickhouse://localhost:9000/default", want: "clickhouse://localhost:9000/default?x-multi-statement=true"},
		{dsn: "clickhouse://localhost:9000/default?debug=true", want: "clickhouse://localhost:9000/default?debug=true&x-multi-statement=true"},
		{dsn: "clickhouse://h/db?x-multi-statement=false", want: "clickhouse://h/db?x-multi-statement=false"},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			require.Equal(t, tt.want, withMultiStatement(tt.dsn))
		})
	}
}

func TestMigrationsSource(t *testing.T) {
	dir := t.TempDir()
	src, err := migrationsSource(dir)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(src, "file://"))

	_, err = migrationsSource(filepath.Join(dir, "missing"))
	require.Error(t, err)

	file := filepath.Join(dir, "file.sql")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	_, err = migrationsSource(file)
	require.Error(t, err)
}
