// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package engine

import "strings"

// termMatcher finds any of a fixed set of terms inside a text in a single
// pass using an Aho-Corasick automaton. Matching is case-insensitive. The
// automaton is immutable once built and safe for concurrent use.
type termMatcher struct {
	root  *acNode
	terms []string
}

type acNode struct {
	children map[rune]*acNode
	fail     *acNode
	out      []int // indices into terms that end here
}

func newACNode() *acNode {
	return &acNode{children: make(map[rune]*acNode)}
}

// newTermMatcher builds a matcher. Empty terms are ignored.
func newTermMatcher(terms []string) *termMatcher {
	m := &termMatcher{root: newACNode()}

	for _, term := range terms {
		term = strings.ToLower(term)
		if term == "" {
			continue
		}
		node := m.root
		for _, ch := range term {
			next := node.children[ch]
			if next == nil {
				next = newACNode()
				node.children[ch] = next
			}
			node = next
		}
		node.out = append(node.out, len(m.terms))
		m.terms = append(m.terms, term)
	}

	m.link()
	return m
}

// link sets failure links breadth-first so every node's output also
// carries the outputs of its longest proper suffix.
func (m *termMatcher) link() {
	queue := make([]*acNode, 0, len(m.root.children))
	for _, child := range m.root.children {
		child.fail = m.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ch, child := range current.children {
			queue = append(queue, child)

			fail := current.fail
			for fail != nil && fail.children[ch] == nil {
				fail = fail.fail
			}
			if fail == nil {
				child.fail = m.root
				continue
			}
			child.fail = fail.children[ch]
			child.out = append(child.out, child.fail.out...)
		}
	}
}

// FirstMatch returns the first term found in text, scanning left to right.
func (m *termMatcher) FirstMatch(text string) (string, bool) {
	if len(m.terms) == 0 {
		return "", false
	}

	node := m.root
	for _, ch := range strings.ToLower(text) {
		for node != nil && node.children[ch] == nil {
			node = node.fail
		}
		if node == nil {
			node = m.root
			continue
		}
		node = node.children[ch]
		if len(node.out) > 0 {
			return m.terms[node.out[0]], true
		}
	}
	return "", false
}
