// Copyright 2026 The entt authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sparse

import "github.com/cjhowedev/entt/entity"

// pageTable is the paged sparse array: sparse[page(e)][offset(e)] holds the
// packed position (encoded as an entity.ID with the family's null value
// meaning "absent") for the entity index e. Pages are allocated lazily and
// every cell in a freshly allocated page is initialized to the family's
// null value.
type pageTable struct {
	family   *entity.Family
	pageSize int
	pages    [][]entity.ID
}

func newPageTable(family *entity.Family, pageSize int) *pageTable {
	return &pageTable{family: family, pageSize: pageSize}
}

func (t *pageTable) pageOf(idx entity.ID) int {
	return int(idx) / t.pageSize
}

func (t *pageTable) offsetOf(idx entity.ID) int {
	return int(idx) % t.pageSize
}

// assure returns the page for idx, allocating it (and any intervening
// pages) on demand.
func (t *pageTable) assure(idx entity.ID) []entity.ID {
	p := t.pageOf(idx)
	for len(t.pages) <= p {
		t.pages = append(t.pages, nil)
	}
	if t.pages[p] == nil {
		page := make([]entity.ID, t.pageSize)
		null := t.family.Null()
		for i := range page {
			page[i] = null
		}
		t.pages[p] = page
	}
	return t.pages[p]
}

// get returns the stored identifier for idx, or the family's null value if
// the backing page was never allocated.
func (t *pageTable) get(idx entity.ID) entity.ID {
	p := t.pageOf(idx)
	if p >= len(t.pages) || t.pages[p] == nil {
		return t.family.Null()
	}
	return t.pages[p][t.offsetOf(idx)]
}

// set stores value at idx, allocating the backing page if needed.
func (t *pageTable) set(idx entity.ID, value entity.ID) {
	page := t.assure(idx)
	page[t.offsetOf(idx)] = value
}

// extent returns pageCount * pageSize.
func (t *pageTable) extent() int {
	return len(t.pages) * t.pageSize
}

// shrinkToFit releases trailing pages that are entirely null-valued.
func (t *pageTable) shrinkToFit() {
	null := t.family.Null()
	for len(t.pages) > 0 {
		last := t.pages[len(t.pages)-1]
		if last == nil {
			t.pages = t.pages[:len(t.pages)-1]
			continue
		}
		empty := true
		for _, v := range last {
			if v != null {
				empty = false
				break
			}
		}
		if !empty {
			break
		}
		t.pages = t.pages[:len(t.pages)-1]
	}
}
