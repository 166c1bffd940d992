package server

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/gliderlabs/ssh"

	"maptex/internal/grid"
	"maptex/internal/render"
)

// SSHServer wraps the SSH listener and the shared texture gallery.
type SSHServer struct {
	gallery *Gallery
	addr    string
	hostKey string

	mu       sync.Mutex
	sessions int
	seeds    *rand.Rand
}

// NewSSHServer creates a new SSH server bound to the given address.
func NewSSHServer(addr string, hostKey string, g *Gallery) *SSHServer {
	return &SSHServer{
		gallery: g,
		addr:    addr,
		hostKey: hostKey,
		seeds:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start begins listening for SSH connections.
func (s *SSHServer) Start() error {
	server := &ssh.Server{
		Addr: s.addr,
		Handler: func(sess ssh.Session) {
			s.handleSession(sess)
		},
	}

	// Set host key
	if err := server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}

	log.Printf("SSH server listening on %s", s.addr)
	return server.ListenAndServe()
}

// nextSeed draws a fresh seed for a reseed request. *rand.Rand is not safe
// for concurrent use, so sessions share it under the lock.
func (s *SSHServer) nextSeed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seeds.Int63()
}

func (s *SSHServer) track(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions += delta
	return s.sessions
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	// Require PTY
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	username := sess.User()
	if username == "" {
		username = "Anonymous"
	}

	v, err := newViewer(s.gallery, s.gallery.Start(username), s.nextSeed)
	if err != nil {
		log.Printf("Session for %s failed: %v", username, err)
		fmt.Fprintf(sess, "Error: %v\n", err)
		return
	}

	log.Printf("Viewer connected: %s (%s, %d online)", username, v.view.Preset, s.track(1))
	defer func() {
		s.gallery.Save(username, v.view)
		log.Printf("Viewer disconnected: %s (%d online)", username, s.track(-1))
	}()

	// Terminal dimensions
	termW := ptyReq.Window.Width
	termH := ptyReq.Window.Height

	// Create renderer
	engine := render.NewEngine(termW, termH)

	// Setup terminal
	io.WriteString(sess, render.EnableAltScreen())
	io.WriteString(sess, render.HideCursor())
	io.WriteString(sess, render.ClearScreen())
	defer func() {
		io.WriteString(sess, render.ShowCursor())
		io.WriteString(sess, render.DisableAltScreen())
	}()

	actionCh := make(chan Action, 64)
	quitCh := make(chan struct{})

	// Goroutine: read input
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				close(quitCh)
				return
			}
			for _, action := range parseInput(buf[:n]) {
				if action == ActionQuit {
					close(quitCh)
					return
				}
				select {
				case actionCh <- action:
				default:
				}
			}
		}
	}()

	draw := func() {
		viewW, viewH := render.ViewSize(termW, termH)
		output := engine.Render(v.tex, v.viewport(viewW, viewH), termW, termH, v.status())
		if len(output) > 0 {
			io.WriteString(sess, output)
		}
	}
	draw()

	// Main loop: redraw after every input or window resize
	for {
		select {
		case <-quitCh:
			return
		case <-sess.Context().Done():
			return
		case win, ok := <-winCh:
			if !ok {
				winCh = nil
				continue
			}
			termW, termH = win.Width, win.Height
			draw()
		case action := <-actionCh:
			viewW, viewH := render.ViewSize(termW, termH)
			if err := v.apply(action, viewW, viewH); err != nil {
				log.Printf("Viewer %s: %v", username, err)
				continue
			}
			grid.Logger().Debug("viewer action", "user", username, "action", action, "preset", v.view.Preset, "seed", v.view.Seed)
			draw()
		}
	}
}
