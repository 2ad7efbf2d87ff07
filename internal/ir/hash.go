package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainEffect     = "herald/effect/v1"
	DomainTranscript = "herald/transcript/v1"
	DomainSnapshot   = "herald/snapshot/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// effectObject is the canonical form hashed by EffectID and TranscriptID.
func effectObject(e Effect) IRObject {
	return IRObject{
		"object_phid": IRString(e.ObjectPHID),
		"action":      IRString(e.Action),
		"target":      Strings(e.Target...),
		"reason":      IRString(e.Reason),
		"rule": IRObject{
			"id":          IRString(e.Rule.ID),
			"name":        IRString(e.Rule.Name),
			"author_phid": IRString(e.Rule.AuthorPHID),
			"scope":       IRString(e.Rule.Scope),
		},
	}
}

// EffectID computes the content-addressed ID of an effect.
// Two effects with identical content share an ID; the transcript index
// disambiguates repeats within a pass.
func EffectID(e Effect) (string, error) {
	canonical, err := MarshalCanonical(effectObject(e))
	if err != nil {
		return "", fmt.Errorf("EffectID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainEffect, canonical), nil
}

// TranscriptID computes the content-addressed ID of the transcript at
// position index of the pass identified by passToken.
func TranscriptID(passToken string, index int, t ApplyTranscript) (string, error) {
	obj := IRObject{
		"pass_token": IRString(passToken),
		"index":      IRInt(index),
		"effect":     effectObject(t.Effect),
		"applied":    IRBool(t.Applied),
		"reason":     IRString(t.Reason),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("TranscriptID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTranscript, canonical), nil
}

// SnapshotHash hashes a field snapshot (field ID → value).
func SnapshotHash(fields IRObject) (string, error) {
	canonical, err := MarshalCanonical(fields)
	if err != nil {
		return "", fmt.Errorf("SnapshotHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}

// MustEffectID is like EffectID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustEffectID(e Effect) string {
	id, err := EffectID(e)
	if err != nil {
		panic(err)
	}
	return id
}
