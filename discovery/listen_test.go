package discovery

import (
	"net"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/mikanbox/droplink/types"
)

func packet(t *testing.T, announcement types.PeerAnnouncement) []byte {
	t.Helper()
	payload, err := sonic.Marshal(&announcement)
	if err != nil {
		t.Fatal(err)
	}
	return payload
}

func testAddr() *net.UDPAddr {
	return &net.UDPAddr{IP: net.IPv4(10, 0, 0, 42), Port: 53339}
}

func TestListenerIgnoresOwnAnnouncements(t *testing.T) {
	listener := NewListener("224.0.0.171", 53339, "self-fingerprint", nil)

	listener.handlePacket(packet(t, types.PeerAnnouncement{
		Alias:       "Myself",
		Fingerprint: "self-fingerprint",
		Announce:    true,
	}), testAddr())

	if peers := listener.Peers(); len(peers) != 0 {
		t.Errorf("own announcements must not be cached, got %v", peers)
	}
}

func TestListenerIgnoresMalformedPackets(t *testing.T) {
	listener := NewListener("224.0.0.171", 53339, "self", nil)

	listener.handlePacket([]byte("{not json"), testAddr())
	listener.handlePacket(packet(t, types.PeerAnnouncement{Announce: true}), testAddr()) // no fingerprint

	if peers := listener.Peers(); len(peers) != 0 {
		t.Errorf("malformed packets must not be cached, got %v", peers)
	}
}

func TestListenerGoodbyeRemovesPeer(t *testing.T) {
	listener := NewListener("224.0.0.171", 53339, "self", nil)

	// seed the cache directly; the announce path would ICMP-probe the peer
	listener.peers.Set("peer-1", types.PeerItem{
		Alias:       "Other",
		Fingerprint: "peer-1",
		IPAddress:   "10.0.0.42",
	})
	if len(listener.Peers()) != 1 {
		t.Fatal("expected seeded peer")
	}

	listener.handlePacket(packet(t, types.PeerAnnouncement{
		Alias:       "Other",
		Fingerprint: "peer-1",
		Announce:    false,
	}), testAddr())

	if peers := listener.Peers(); len(peers) != 0 {
		t.Errorf("goodbye should remove the peer, got %v", peers)
	}
}

func TestListenerUpdatesKnownPeerWithoutProbe(t *testing.T) {
	listener := NewListener("224.0.0.171", 53339, "self", nil)

	listener.peers.Set("peer-1", types.PeerItem{
		Alias:       "Other",
		Fingerprint: "peer-1",
		IPAddress:   "10.0.0.42",
		FileCount:   1,
	})

	listener.handlePacket(packet(t, types.PeerAnnouncement{
		Alias:       "Other",
		Fingerprint: "peer-1",
		Port:        40001,
		PrimaryURL:  "http://10.0.0.42:40001",
		FileCount:   3,
		Announce:    true,
	}), testAddr())

	peers := listener.Peers()
	if len(peers) != 1 {
		t.Fatalf("expected 1 peer, got %d", len(peers))
	}
	if peers[0].FileCount != 3 || peers[0].Port != 40001 {
		t.Errorf("peer not updated: %+v", peers[0])
	}
}
