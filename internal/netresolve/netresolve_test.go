package netresolve

import "testing"

func TestHostPortLiterals(t *testing.T) {
	cases := []struct {
		host, want string
		port       int
	}{
		{"127.0.0.1", "127.0.0.1:8080", 8080},
		{"localhost", "localhost:80", 80},
		{"::1", "[::1]:22", 22},
	}
	for _, c := range cases {
		got, err := HostPort(c.host, c.port)
		if err != nil {
			t.Fatalf("HostPort(%q, %d) unexpected error: %v", c.host, c.port, err)
		}
		if got != c.want {
			t.Fatalf("HostPort(%q, %d) = %q, want %q", c.host, c.port, got, c.want)
		}
	}
}

func TestHostPortUnresolvable(t *testing.T) {
	_, err := HostPort("this-domain-should-not-resolve.invalid", 80)
	if err == nil {
		t.Fatal("expected an error resolving an invalid domain")
	}
}
