package testhelpers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Migrate пересоздает схему: down миграции в обратном порядке, затем up по порядку.
// Так тесты всегда работают со схемой из migrations/, а не с остатками прошлых прогонов.
func (tdb *TestDB) Migrate(ctx context.Context, dir string) error {
	down, err := migrationFiles(dir, "*.down.sql")
	if err != nil {
		return err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(down)))

	up, err := migrationFiles(dir, "*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(up)

	for _, file := range append(down, up...) {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", filepath.Base(file), err)
		}
		if _, err := tdb.DB.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", filepath.Base(file), err)
		}
	}
	return nil
}

func migrationFiles(dir, pattern string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	if len(files) == 0 && pattern == "*.up.sql" {
		return nil, fmt.Errorf("no migrations in %s", dir)
	}
	return files, nil
}
