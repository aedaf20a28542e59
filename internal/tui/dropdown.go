package tui

import (
	"sort"
	"strings"
)

// DropdownItem is one selectable option.
type DropdownItem struct {
	ID     string
	Label  string
	Search string
}

type DropdownAction int

const (
	DropdownActionNone DropdownAction = iota
	DropdownActionOpened
	DropdownActionMoved
	DropdownActionSelected
	DropdownActionCancelled
)

type DropdownResult struct {
	Action DropdownAction
	Item   DropdownItem
}

// Dropdown is a headless single-select control with type-to-filter. With no
// items it is disabled and shows its placeholder instead.
type Dropdown struct {
	label       string
	placeholder string
	items       []DropdownItem
	filtered    []DropdownItem
	selected    string
	query       string
	cursor      int
	open        bool
}

func NewDropdown(label string) *Dropdown {
	return &Dropdown{label: strings.TrimSpace(label)}
}

func (d *Dropdown) Label() string       { return d.label }
func (d *Dropdown) Placeholder() string { return d.placeholder }
func (d *Dropdown) Query() string       { return d.query }
func (d *Dropdown) Cursor() int         { return d.cursor }
func (d *Dropdown) IsOpen() bool        { return d.open }
func (d *Dropdown) Selected() string    { return d.selected }

// Disabled reports whether there is nothing to choose from.
func (d *Dropdown) Disabled() bool { return len(d.items) == 0 }

func (d *Dropdown) Items() []DropdownItem {
	return append([]DropdownItem(nil), d.filtered...)
}

// SetItems replaces the options. A selection that is no longer offered is
// cleared and an open list is closed when it becomes empty.
func (d *Dropdown) SetItems(items []DropdownItem, placeholder string) {
	d.items = append([]DropdownItem(nil), items...)
	d.placeholder = placeholder
	if d.selected != "" {
		if _, ok := d.find(d.selected); !ok {
			d.selected = ""
		}
	}
	if len(d.items) == 0 {
		d.open = false
	}
	d.rebuildFiltered()
}

// SetSelected selects id without emitting an action. Unknown ids clear the
// selection.
func (d *Dropdown) SetSelected(id string) {
	if _, ok := d.find(id); ok {
		d.selected = id
		return
	}
	d.selected = ""
}

// SelectedLabel returns the label of the selection, or the placeholder.
func (d *Dropdown) SelectedLabel() string {
	if item, ok := d.find(d.selected); ok {
		return item.Label
	}
	return d.placeholder
}

func (d *Dropdown) CurrentItem() (DropdownItem, bool) {
	if len(d.filtered) == 0 {
		return DropdownItem{}, false
	}
	idx := d.cursor
	if idx < 0 {
		idx = 0
	}
	if idx >= len(d.filtered) {
		idx = len(d.filtered) - 1
	}
	return d.filtered[idx], true
}

// Open shows the list with the cursor on the current selection.
func (d *Dropdown) Open() bool {
	if d.Disabled() {
		return false
	}
	d.open = true
	d.query = ""
	d.rebuildFiltered()
	d.cursor = 0
	for i, item := range d.filtered {
		if item.ID == d.selected {
			d.cursor = i
			break
		}
	}
	return true
}

func (d *Dropdown) Close() {
	d.open = false
	d.query = ""
	d.rebuildFiltered()
}

func (d *Dropdown) HandleKey(keyName string) DropdownResult {
	if !d.open {
		switch keyName {
		case "enter", " ", "down":
			if d.Open() {
				return DropdownResult{Action: DropdownActionOpened}
			}
		}
		return DropdownResult{Action: DropdownActionNone}
	}
	switch keyName {
	case "up", "ctrl+p":
		if d.cursor > 0 {
			d.cursor--
			return DropdownResult{Action: DropdownActionMoved}
		}
		return DropdownResult{Action: DropdownActionNone}
	case "down", "ctrl+n":
		if d.cursor < len(d.filtered)-1 {
			d.cursor++
			return DropdownResult{Action: DropdownActionMoved}
		}
		return DropdownResult{Action: DropdownActionNone}
	case "enter":
		item, ok := d.CurrentItem()
		if !ok {
			return DropdownResult{Action: DropdownActionNone}
		}
		d.selected = item.ID
		d.Close()
		return DropdownResult{Action: DropdownActionSelected, Item: item}
	case "esc":
		d.Close()
		return DropdownResult{Action: DropdownActionCancelled}
	case "backspace":
		if len(d.query) > 0 {
			d.query = d.query[:len(d.query)-1]
			d.rebuildFiltered()
		}
		return DropdownResult{Action: DropdownActionNone}
	default:
		if isPrintableASCIIKey(keyName) {
			d.query += keyName
			d.rebuildFiltered()
		}
		return DropdownResult{Action: DropdownActionNone}
	}
}

func (d *Dropdown) find(id string) (DropdownItem, bool) {
	if id == "" {
		return DropdownItem{}, false
	}
	for _, item := range d.items {
		if item.ID == id {
			return item, true
		}
	}
	return DropdownItem{}, false
}

type scoredItem struct {
	item  DropdownItem
	score int
	index int
}

func (d *Dropdown) rebuildFiltered() {
	q := strings.TrimSpace(d.query)
	scored := make([]scoredItem, 0, len(d.items))
	for idx, item := range d.items {
		search := strings.TrimSpace(item.Search)
		if search == "" {
			search = item.Label
		}
		matched, score := fuzzyMatchScore(search, q)
		if !matched {
			continue
		}
		scored = append(scored, scoredItem{item: item, score: score, index: idx})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].index < scored[j].index
	})
	out := make([]DropdownItem, 0, len(scored))
	for _, row := range scored {
		out = append(out, row.item)
	}
	d.filtered = out

	maxIdx := len(d.filtered) - 1
	if maxIdx < 0 || d.cursor < 0 {
		d.cursor = 0
	} else if d.cursor > maxIdx {
		d.cursor = maxIdx
	}
}

// fuzzyMatchScore matches query as an ordered subsequence of label. Prefix
// and contiguous matches score higher.
func fuzzyMatchScore(label, query string) (bool, int) {
	if query == "" {
		return true, 0
	}
	labelLower := strings.ToLower(label)
	queryLower := strings.ToLower(query)

	matchIdx := make([]int, 0, len(queryLower))
	searchFrom := 0
	for i := 0; i < len(queryLower); i++ {
		ch := queryLower[i]
		found := false
		for j := searchFrom; j < len(labelLower); j++ {
			if labelLower[j] == ch {
				matchIdx = append(matchIdx, j)
				searchFrom = j + 1
				found = true
				break
			}
		}
		if !found {
			return false, 0
		}
	}

	score := len(queryLower)
	if len(matchIdx) > 0 && matchIdx[0] == 0 {
		score += 10
	}
	for i := 1; i < len(matchIdx); i++ {
		if matchIdx[i] == matchIdx[i-1]+1 {
			score += 3
		}
	}
	if strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(query)) {
		score += 20
	}
	return true, score
}

func isPrintableASCIIKey(keyName string) bool {
	return len(keyName) == 1 && keyName[0] >= 32 && keyName[0] < 127
}
