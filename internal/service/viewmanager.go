package service

import (
	"fmt"
	"path/filepath"

	"fygallery/internal/store"
)

// ViewManager holds the records shown in the gallery list. It is derived
// state: the store stays authoritative and every mutation is followed by a
// Reload. Selection is tracked by record id, so it survives reloads and
// filtering as long as the record still exists.
type ViewManager struct {
	records     []store.ImageRecord
	visible     []store.ImageRecord
	filter      string
	selectedID  int64
	hasSelected bool
}

// NewViewManager creates an empty ViewManager.
func NewViewManager() *ViewManager {
	return &ViewManager{}
}

// Reload replaces all rows with records and reapplies the current filter.
// A selection whose record is gone is cleared.
func (vm *ViewManager) Reload(records []store.ImageRecord) {
	vm.records = append(vm.records[:0:0], records...)
	vm.apply()
}

// SetFilter narrows the visible rows to records matching term.
func (vm *ViewManager) SetFilter(term string) {
	vm.filter = term
	vm.apply()
}

// Filter returns the active filter term.
func (vm *ViewManager) Filter() string {
	return vm.filter
}

func (vm *ViewManager) apply() {
	vm.visible = Filter(vm.records, vm.filter)
	if vm.hasSelected {
		if _, ok := vm.rowOf(vm.selectedID); !ok {
			vm.ClearSelection()
		}
	}
}

// Len returns the number of visible rows.
func (vm *ViewManager) Len() int {
	return len(vm.visible)
}

// Total returns the number of records regardless of the filter.
func (vm *ViewManager) Total() int {
	return len(vm.records)
}

// RecordAt returns the record displayed at row.
func (vm *ViewManager) RecordAt(row int) (store.ImageRecord, error) {
	if row < 0 || row >= len(vm.visible) {
		return store.ImageRecord{}, fmt.Errorf("row %d out of bounds (rows: %d)", row, len(vm.visible))
	}
	return vm.visible[row], nil
}

// Filename returns the base name shown for row, or "" when out of bounds.
func (vm *ViewManager) Filename(row int) string {
	rec, err := vm.RecordAt(row)
	if err != nil {
		return ""
	}
	return filepath.Base(rec.Path)
}

// Select marks the record at row as selected and returns it.
func (vm *ViewManager) Select(row int) (store.ImageRecord, error) {
	rec, err := vm.RecordAt(row)
	if err != nil {
		return store.ImageRecord{}, err
	}
	vm.selectedID = rec.ID
	vm.hasSelected = true
	return rec, nil
}

// SelectedID returns the id of the selected record.
func (vm *ViewManager) SelectedID() (int64, bool) {
	return vm.selectedID, vm.hasSelected
}

// SelectedRow returns the visible row of the selected record.
func (vm *ViewManager) SelectedRow() (int, bool) {
	if !vm.hasSelected {
		return -1, false
	}
	return vm.rowOf(vm.selectedID)
}

// ClearSelection drops the selection.
func (vm *ViewManager) ClearSelection() {
	vm.selectedID = 0
	vm.hasSelected = false
}

func (vm *ViewManager) rowOf(id int64) (int, bool) {
	for i, rec := range vm.visible {
		if rec.ID == id {
			return i, true
		}
	}
	return -1, false
}
