// Package contacts provides Contact Resolver adapters: a permissive resolver
// for hosts without an address book, a file-backed address book, and an
// LRU-cached decorator that turns lookup failures into "not a contact".
package contacts

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/haukened/rr-screen/internal/screen/common/phone"
	"github.com/haukened/rr-screen/internal/screen/domain"
)

// Resolver answers whether a sender is a known contact.
type Resolver interface {
	IsContact(sender string) (bool, error)
}

// Permissive treats every sender as a contact.
type Permissive struct{}

func (Permissive) IsContact(string) (bool, error) { return true, nil }

// AddressBook is a fixed set of contact numbers.
type AddressBook struct {
	numbers domain.NumberSet
}

// NewAddressBook builds an address book from the given numbers. Invalid
// numbers are skipped.
func NewAddressBook(numbers ...string) *AddressBook {
	ab := &AddressBook{numbers: domain.NewNumberSet()}
	for _, n := range numbers {
		if c := phone.Canonical(n); phone.Valid(c) {
			ab.numbers.Add(c)
		}
	}
	return ab
}

// ReadAddressBook reads one number per line. Blank lines and lines starting
// with '#' are ignored; anything after a comma is treated as a display name.
func ReadAddressBook(r io.Reader) (*AddressBook, error) {
	var numbers []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.IndexByte(line, ','); idx >= 0 {
			line = line[:idx]
		}
		numbers = append(numbers, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read address book: %w", err)
	}
	return NewAddressBook(numbers...), nil
}

// LoadAddressBook reads an address book file.
func LoadAddressBook(path string) (*AddressBook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open address book: %w", err)
	}
	defer f.Close()
	return ReadAddressBook(f)
}

func (a *AddressBook) IsContact(sender string) (bool, error) {
	return a.numbers.Has(phone.Canonical(sender)), nil
}

// Len returns the number of contacts.
func (a *AddressBook) Len() int { return len(a.numbers) }

var (
	_ Resolver = Permissive{}
	_ Resolver = (*AddressBook)(nil)
)
