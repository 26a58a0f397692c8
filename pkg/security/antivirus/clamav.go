package antivirus

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// ClamAVScanner streams files to a clamd daemon with the INSTREAM command.
type ClamAVScanner struct {
	address string // host:port or a unix socket path
	timeout time.Duration
}

var _ Scanner = (*ClamAVScanner)(nil)

func NewClamAVScanner(address string, timeout time.Duration) *ClamAVScanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAVScanner{address: address, timeout: timeout}
}

func (c *ClamAVScanner) Name() string { return "clamav" }

func (c *ClamAVScanner) network() string {
	if strings.HasPrefix(c.address, "/") {
		return "unix"
	}
	return "tcp"
}

func (c *ClamAVScanner) Scan(ctx context.Context, data []byte) (Verdict, error) {
	verdict := Verdict{Scanner: c.Name()}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, c.network(), c.address)
	if err != nil {
		return verdict, fmt.Errorf("failed to connect to clamd: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(data)))

	for _, chunk := range [][]byte{[]byte("zINSTREAM\x00"), size[:], data, {0, 0, 0, 0}} {
		if _, err := conn.Write(chunk); err != nil {
			return verdict, fmt.Errorf("failed to stream to clamd: %w", err)
		}
	}

	reply, err := io.ReadAll(io.LimitReader(conn, 1024))
	if err != nil {
		return verdict, fmt.Errorf("failed to read clamd reply: %w", err)
	}

	infected, threat, err := parseReply(string(reply))
	verdict.Infected = infected
	verdict.ThreatName = threat
	return verdict, err
}

// parseReply reads "stream: OK", "stream: <threat> FOUND" or "... ERROR".
func parseReply(reply string) (bool, string, error) {
	reply = strings.TrimRight(strings.TrimSpace(reply), "\x00")
	_, status, _ := strings.Cut(reply, ":")
	status = strings.TrimSpace(status)

	switch {
	case status == "OK":
		return false, "", nil
	case strings.HasSuffix(status, " FOUND"):
		return true, strings.TrimSuffix(status, " FOUND"), nil
	default:
		return false, "", fmt.Errorf("clamd error: %s", reply)
	}
}
