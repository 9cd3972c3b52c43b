package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/schema"
)

func TestForeignKeysReferenceMigratedTables(t *testing.T) {
	tables := map[string]bool{}
	for _, m := range Models() {
		tn, ok := m.(schema.Tabler)
		if assert.True(t, ok, "%T has no TableName", m) {
			tables[tn.TableName()] = true
		}
	}
	seen := map[string]bool{}
	for _, fk := range ForeignKeys {
		assert.True(t, tables[fk.Table], "unknown table %s", fk.Table)
		assert.True(t, tables[fk.RefTable], "unknown referenced table %s", fk.RefTable)
		assert.False(t, seen[fk.Name()], "duplicate constraint %s", fk.Name())
		seen[fk.Name()] = true
	}
}

func TestForeignKeySQL(t *testing.T) {
	sql := ForeignKey{"sections", "course_id", "courses", cascade}.SQL()
	assert.Contains(t, sql, "conname = 'fk_sections_course_id'")
	assert.Contains(t, sql, "ALTER TABLE sections ADD CONSTRAINT fk_sections_course_id FOREIGN KEY (course_id) REFERENCES courses(id) ON DELETE CASCADE")
}

