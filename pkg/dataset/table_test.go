package dataset

import "testing"

func TestTableAddAndLookup(t *testing.T) {
	table := NewTable()
	if err := table.AddColumn("age", []float64{50, 60, 70}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := table.AddColumn("readmitted", []float64{1, 0, 1}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if table.NumRows() != 3 {
		t.Fatalf("expected 3 rows, got %d", table.NumRows())
	}
	if table.NumColumns() != 2 {
		t.Fatalf("expected 2 columns, got %d", table.NumColumns())
	}

	col, ok := table.Column("age")
	if !ok {
		t.Fatal("expected age column to exist")
	}
	if col.Values[1] != 60 {
		t.Fatalf("expected age[1] = 60, got %f", col.Values[1])
	}
	if _, ok := table.Column("weight"); ok {
		t.Fatal("did not expect weight column")
	}
}

func TestTableRejectsMismatchedLengths(t *testing.T) {
	table := NewTable()
	if err := table.AddColumn("age", []float64{50, 60}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := table.AddColumn("short", []float64{1}, nil); err == nil {
		t.Fatal("expected error for mismatched column length")
	}
}

func TestTableRejectsDuplicateColumn(t *testing.T) {
	table := NewTable()
	if err := table.AddColumn("age", []float64{50}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := table.AddColumn("age", []float64{60}, nil); err == nil {
		t.Fatal("expected error for duplicate column name")
	}
}
