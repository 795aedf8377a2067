package database

import (
	"fmt"
	"os"
	"strings"

	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

// AutoMigrate creates the customers and reservations tables when they are
// missing. Production schemas are managed outside this service.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Customer{}, &models.Reservation{}); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

// ExecuteSQLFile runs every statement of a SQL script. Statements are
// separated by ';' at the end of a line; lines starting with "--" are
// skipped. It stops at the first failing statement.
func ExecuteSQLFile(db *gorm.DB, path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	executed := 0
	for _, stmt := range SplitStatements(string(content)) {
		if err := db.Exec(stmt).Error; err != nil {
			utils.ErrorLogger.WithField("statement", stmt).Errorf("Error executing seed statement: %v", err)
			return executed, fmt.Errorf("statement %d of %s: %w", executed+1, path, err)
		}
		executed++
	}

	utils.InfoLogger.WithField("file", path).Printf("Executed %d statements", executed)
	return executed, nil
}

func SplitStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
	)

	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(trimmed)

		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSuffix(current.String(), ";")
			if strings.TrimSpace(stmt) != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}

	if rest := strings.TrimSpace(current.String()); rest != "" {
		statements = append(statements, rest)
	}
	return statements
}
