// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// IdentifierKind tells which account column an identifier is matched against.
type IdentifierKind string

const (
	IdentifierUsername IdentifierKind = "username"
	IdentifierPhone    IdentifierKind = "phone"
	IdentifierUnknown  IdentifierKind = "unknown"
)

// Phone numbers carry between 7 and 15 digits (E.164 upper bound).
const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
	maxIdentifier  = 128 // characters
)

// Identifier is a login identifier in canonical form.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

var foldCase = cases.Lower(language.Und)

/*
ParseIdentifier classifies and canonicalizes a raw login identifier.

  - Phone: only digits, '+', '-', spaces and parentheses, with 7 to 15 digits.
    Canonical form is "+" followed by the digits.
  - Username: starts with a letter. Canonical form is NFKC, lowercased.

Anything else reports ok=false. Because a username cannot start with a digit
or '+', the two formats never overlap.
*/
func ParseIdentifier(raw string) (identifier Identifier, ok bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxIdentifier {
		return Identifier{Kind: IdentifierUnknown}, false
	}

	if phone, isPhone := canonicalPhone(trimmed); isPhone {
		return Identifier{Kind: IdentifierPhone, Value: phone}, true
	}

	username := foldCase.String(norm.NFKC.String(trimmed))
	first := []rune(username)[0]
	if !unicode.IsLetter(first) || strings.ContainsFunc(username, unicode.IsSpace) {
		return Identifier{Kind: IdentifierUnknown}, false
	}

	return Identifier{Kind: IdentifierUsername, Value: username}, true
}

func canonicalPhone(value string) (string, bool) {
	var digits strings.Builder

	for index, character := range value {
		switch {
		case character >= '0' && character <= '9':
			digits.WriteRune(character)
		case character == '+' && index == 0:
		case character == '-' || character == ' ' || character == '(' || character == ')':
		default:
			return "", false
		}
	}

	count := digits.Len()
	if count < minPhoneDigits || count > maxPhoneDigits {
		return "", false
	}
	return "+" + digits.String(), true
}

// throttleKey returns the key failed attempts are counted under.
func (identifier Identifier) throttleKey(raw string) string {
	if identifier.Value != "" {
		return string(identifier.Kind) + ":" + identifier.Value
	}
	return string(IdentifierUnknown) + ":" + strings.ToLower(strings.TrimSpace(raw))
}
