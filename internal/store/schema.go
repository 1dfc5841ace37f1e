package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories.
const (
	tableEntries       = "entries"
	tableSessionEvents = "session_events"

	colID           = "id"
	colLexeme       = "lexeme"
	colDefinition   = "definition"
	colCategory     = "category"
	colCollocate    = "collocate"
	colSentence     = "sentence"
	colLabels       = "labels"
	colTestCount    = "test_count"
	colMatchSum     = "match_sum"
	colWasTested    = "was_tested"
	colForPractice  = "for_practice"
	colWasPracticed = "was_practiced"
	colCreatedAt    = "created_at"
	colUpdatedAt    = "updated_at"
	colTestedAt     = "tested_at"

	colSequence  = "sequence"
	colTimestamp = "timestamp"
	colSessionID = "session_id"
	colAction    = "action"
	colEntryID   = "entry_id"
	colPool      = "pool"
	colRatio     = "ratio"
	colAccepted  = "accepted"
	colQuestions = "questions"
)

var (
	entriesColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colLexeme, Type: field.TypeString},
		{Name: colDefinition, Type: field.TypeString},
		{Name: colCategory, Type: field.TypeString},
		{Name: colCollocate, Type: field.TypeString, Nullable: true},
		{Name: colSentence, Type: field.TypeString, Nullable: true},
		{Name: colLabels, Type: field.TypeString, Default: ""},
		{Name: colTestCount, Type: field.TypeInt, Default: 0},
		{Name: colMatchSum, Type: field.TypeFloat64, Default: 0},
		{Name: colWasTested, Type: field.TypeBool, Default: false},
		{Name: colForPractice, Type: field.TypeBool, Default: false},
		{Name: colWasPracticed, Type: field.TypeBool, Nullable: true},
		{Name: colCreatedAt, Type: field.TypeTime},
		{Name: colUpdatedAt, Type: field.TypeTime},
		{Name: colTestedAt, Type: field.TypeTime, Nullable: true},
	}
	entriesSchema = &schema.Table{
		Name:       tableEntries,
		Columns:    entriesColumns,
		PrimaryKey: []*schema.Column{entriesColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "entry_lexeme_definition",
				Unique:  true,
				Columns: []*schema.Column{entriesColumns[1], entriesColumns[2]},
			},
			{
				Name:    "entry_was_tested",
				Columns: []*schema.Column{entriesColumns[9]},
			},
			{
				Name:    "entry_for_practice_was_practiced",
				Columns: []*schema.Column{entriesColumns[10], entriesColumns[11]},
			},
		},
	}

	sessionEventsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colTimestamp, Type: field.TypeTime},
		{Name: colSessionID, Type: field.TypeString},
		{Name: colAction, Type: field.TypeString},
		{Name: colEntryID, Type: field.TypeInt, Nullable: true},
		{Name: colPool, Type: field.TypeString, Default: ""},
		{Name: colRatio, Type: field.TypeFloat64, Default: 0},
		{Name: colAccepted, Type: field.TypeBool, Default: false},
		{Name: colQuestions, Type: field.TypeInt, Default: 0},
	}
	sessionEventsSchema = &schema.Table{
		Name:       tableSessionEvents,
		Columns:    sessionEventsColumns,
		PrimaryKey: []*schema.Column{sessionEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "sessionevent_session_id",
				Columns: []*schema.Column{sessionEventsColumns[3]},
			},
			{
				Name:    "sessionevent_timestamp",
				Columns: []*schema.Column{sessionEventsColumns[2]},
			},
		},
	}

	tables = []*schema.Table{entriesSchema, sessionEventsSchema}
)

// migrate creates or upgrades all tables using ent's migration engine.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
