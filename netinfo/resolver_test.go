package netinfo

import (
	"sort"
	"testing"
)

func TestResolveAddressesAlwaysIncludesLoopback(t *testing.T) {
	addresses := ResolveAddresses(8080)

	want := map[string]bool{
		"http://localhost:8080": false,
		"http://127.0.0.1:8080": false,
	}
	for _, url := range addresses {
		if _, ok := want[url]; ok {
			want[url] = true
		}
	}
	for url, found := range want {
		if !found {
			t.Errorf("expected %s in %v", url, addresses)
		}
	}
}

func TestResolveAddressesSortedAndDeduplicated(t *testing.T) {
	addresses := ResolveAddresses(9000)
	if !sort.StringsAreSorted(addresses) {
		t.Errorf("addresses not sorted: %v", addresses)
	}
	seen := map[string]bool{}
	for _, url := range addresses {
		if seen[url] {
			t.Errorf("duplicate address %s in %v", url, addresses)
		}
		seen[url] = true
	}
}

func TestChoosePrimaryPrefersPrivateIPv4(t *testing.T) {
	addresses := []string{
		"http://127.0.0.1:8080",
		"http://192.168.1.5:8080",
		"http://localhost:8080",
	}
	if got := ChoosePrimary(addresses, 8080); got != "http://192.168.1.5:8080" {
		t.Errorf("expected private IPv4 URL, got %s", got)
	}
}

func TestChoosePrimaryFallsBackToNonLoopback(t *testing.T) {
	addresses := []string{
		"http://10.0.0.7:8080",
		"http://127.0.0.1:8080",
		"http://localhost:8080",
	}
	if got := ChoosePrimary(addresses, 8080); got != "http://10.0.0.7:8080" {
		t.Errorf("expected non-loopback URL, got %s", got)
	}
}

func TestChoosePrimaryLoopbackLastResort(t *testing.T) {
	addresses := []string{
		"http://127.0.0.1:8080",
		"http://localhost:8080",
	}
	if got := ChoosePrimary(addresses, 8080); got != "http://127.0.0.1:8080" {
		t.Errorf("expected loopback fallback, got %s", got)
	}
	if got := ChoosePrimary(nil, 4242); got != "http://127.0.0.1:4242" {
		t.Errorf("expected loopback fallback for empty list, got %s", got)
	}
}
