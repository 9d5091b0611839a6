// Package migration はembed.FSに同梱したSQLをSQLiteに適用する。
// 適用済みのバージョンはschema_migrationsテーブルで管理する。
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"path"
	"slices"
	"strconv"
	"strings"
)

// upSuffix は適用対象となるファイルの拡張子。
const upSuffix = ".up.sql"

// Step は1つのマイグレーションファイルを表す。
type Step struct {
	// Version はファイル名先頭の連番。
	Version int
	// Name はファイル名のうち連番と拡張子を除いた部分。
	Name string
	// Path はfs.FS上のパス。
	Path string
}

// Apply は未適用のマイグレーションをバージョン順に適用し、今回適用したStepを返す。
// ファイル名形式: 000001_description.up.sql
func Apply(ctx context.Context, db *sql.DB, fsys fs.FS, dir string) ([]Step, error) {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
		)
	`); err != nil {
		return nil, fmt.Errorf("マイグレーション管理テーブルの作成に失敗: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("適用済みバージョンの取得に失敗: %w", err)
	}

	steps, err := Collect(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("マイグレーションファイルの収集に失敗: %w", err)
	}

	var done []Step
	for _, s := range steps {
		if _, ok := applied[s.Version]; ok {
			continue
		}
		if err := applyStep(ctx, db, fsys, s); err != nil {
			return done, fmt.Errorf("マイグレーション %06d の適用に失敗: %w", s.Version, err)
		}
		log.Printf("[Migration] %06d_%s を適用しました", s.Version, s.Name)
		done = append(done, s)
	}
	return done, nil
}

// Collect はdir直下のup.sqlファイルをバージョン順に並べて返す。
// 連番を解釈できないファイルは無視する。
func Collect(fsys fs.FS, dir string) ([]Step, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	var steps []Step
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, upSuffix) {
			continue
		}

		prefix, rest, ok := strings.Cut(strings.TrimSuffix(name, upSuffix), "_")
		if !ok {
			continue
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}

		steps = append(steps, Step{
			Version: version,
			Name:    rest,
			Path:    path.Join(dir, name),
		})
	}

	slices.SortFunc(steps, func(a, b Step) int { return a.Version - b.Version })
	return steps, nil
}

// appliedVersions は適用済みバージョンの集合を返す。
func appliedVersions(ctx context.Context, db *sql.DB) (map[int]struct{}, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	applied := make(map[int]struct{})
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = struct{}{}
	}
	return applied, rows.Err()
}

// applyStep は1つのStepをトランザクション内で適用する。
func applyStep(ctx context.Context, db *sql.DB, fsys fs.FS, s Step) error {
	content, err := fs.ReadFile(fsys, s.Path)
	if err != nil {
		return fmt.Errorf("ファイル読み込みに失敗: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("SQL実行に失敗: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", s.Version); err != nil {
		return fmt.Errorf("バージョン記録に失敗: %w", err)
	}
	return tx.Commit()
}
