// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"sync"
	"time"
)

// dailySalt is regenerated each UTC day and never persisted, so visitor
// hashes cannot be linked across days or after a restart.
type dailySalt struct {
	mu    sync.Mutex
	day   string
	value []byte
}

func (s *dailySalt) current(now time.Time) []byte {
	day := now.UTC().Format(time.DateOnly)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.day != day || s.value == nil {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			b = []byte(now.String())
		}
		s.day, s.value = day, b
	}
	return s.value
}

// visitorHash identifies a visitor for one day without storing the IP.
func visitorHash(salt []byte, ip, userAgent string) string {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(anonymizeIP(ip)))
	h.Write([]byte{0})
	h.Write([]byte(userAgent))
	return hex.EncodeToString(h.Sum(nil))[:32]
}

// anonymizeIP zeroes the last IPv4 octet or the last 80 bits of IPv6.
func anonymizeIP(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	if v4 := parsed.To4(); v4 != nil {
		v4[3] = 0
		return v4.String()
	}
	v6 := parsed.To16()
	for i := 6; i < 16; i++ {
		v6[i] = 0
	}
	return v6.String()
}
