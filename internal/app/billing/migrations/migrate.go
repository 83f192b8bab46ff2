package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	admin "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instanceadmin "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"github.com/sirupsen/logrus"
	"github.com/wuyiadepoju/iap-billing/internal/pkg/config"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RunMigrations creates the instance and database if needed and applies
// every .sql file in dir (or the project's migrations/ directory when dir
// is empty) in lexical order.
func RunMigrations(ctx context.Context, cfg config.SpannerConfig, dir string, log logrus.FieldLogger) error {
	var opts []option.ClientOption
	if endpoint := cfg.Endpoint(); endpoint != "" {
		log.WithField("endpoint", endpoint).Info("Using Spanner emulator")
		opts = append(opts, option.WithEndpoint(endpoint))
	} else {
		log.Info("Using production Spanner")
	}

	if err := ensureInstance(ctx, cfg, log, opts); err != nil {
		return err
	}

	adminClient, err := admin.NewDatabaseAdminClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create database admin client: %w", err)
	}
	defer adminClient.Close()

	if dir == "" {
		dir, err = FindMigrationsDir()
		if err != nil {
			return fmt.Errorf("failed to find migrations directory: %w", err)
		}
	}
	statements, err := LoadStatements(dir, log)
	if err != nil {
		return err
	}
	if len(statements) == 0 {
		log.WithField("dir", dir).Info("No DDL statements found")
		return nil
	}

	databasePath := cfg.DatabasePath()
	_, err = adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: databasePath})
	if err != nil {
		st, ok := status.FromError(err)
		if !ok || st.Code() != codes.NotFound {
			return fmt.Errorf("failed to check database existence: %w", err)
		}

		log.WithField("database", cfg.Database).Info("Database does not exist, creating with migrations")
		op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
			Parent:          fmt.Sprintf("projects/%s/instances/%s", cfg.Project, cfg.Instance),
			CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", cfg.Database),
			ExtraStatements: statements,
		})
		if err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		db, err := op.Wait(ctx)
		if err != nil {
			return fmt.Errorf("database creation failed: %w", err)
		}
		log.WithFields(logrus.Fields{"database": db.Name, "statements": len(statements)}).Info("Database created")
		return nil
	}

	log.WithField("statements", len(statements)).Info("Applying DDL statements")
	op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
		Database:   databasePath,
		Statements: statements,
	})
	if err != nil {
		return fmt.Errorf("failed to start migrations: %w", err)
	}
	if err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to complete migrations: %w", err)
	}

	log.WithField("statements", len(statements)).Info("Migrations applied")
	return nil
}

func ensureInstance(ctx context.Context, cfg config.SpannerConfig, log logrus.FieldLogger, opts []option.ClientOption) error {
	client, err := instanceadmin.NewInstanceAdminClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer client.Close()

	instanceName := fmt.Sprintf("projects/%s/instances/%s", cfg.Project, cfg.Instance)
	_, err = client.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: instanceName})
	if err == nil {
		return nil
	}
	if st, ok := status.FromError(err); !ok || st.Code() != codes.NotFound {
		return fmt.Errorf("failed to check instance existence: %w", err)
	}

	log.WithField("instance", cfg.Instance).Info("Instance does not exist, creating")
	op, err := client.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     fmt.Sprintf("projects/%s", cfg.Project),
		InstanceId: cfg.Instance,
		Instance: &instancepb.Instance{
			DisplayName: cfg.Instance,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create instance: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("instance creation failed: %w", err)
	}
	return nil
}

// LoadStatements reads every .sql file in dir and returns their DDL
// statements in file order.
func LoadStatements(dir string, log logrus.FieldLogger) ([]string, error) {
	files, err := migrationFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get migration files: %w", err)
	}

	var all []string
	for _, file := range files {
		sql, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", file, err)
		}
		statements := ParseDDLStatements(string(sql))
		log.WithFields(logrus.Fields{"file": filepath.Base(file), "statements": len(statements)}).Debug("Read migration")
		all = append(all, statements...)
	}
	return all, nil
}

// FindMigrationsDir walks up from the working directory to the directory
// holding go.mod and returns its migrations/ subdirectory.
func FindMigrationsDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	for dir := wd; ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			migrationsPath := filepath.Join(dir, "migrations")
			if _, err := os.Stat(migrationsPath); err != nil {
				return "", fmt.Errorf("migrations directory not found at %s", migrationsPath)
			}
			return migrationsPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find migrations directory (searched from %s)", wd)
}

func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// ParseDDLStatements splits a SQL script into statements, dropping "--"
// comments and trailing semicolons.
func ParseDDLStatements(sql string) []string {
	var statements []string
	var current strings.Builder

	flush := func() {
		stmt := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(current.String()), ";"))
		if stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for _, line := range strings.Split(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		if idx := strings.Index(trimmed, "--"); idx >= 0 {
			trimmed = strings.TrimSpace(trimmed[:idx])
		}
		if trimmed == "" {
			continue
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(trimmed)

		if strings.HasSuffix(trimmed, ";") {
			flush()
		}
	}
	flush()

	return statements
}
