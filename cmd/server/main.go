package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"log"
	"log/slog"
	"os"

	"maptex/internal/grid"
	"maptex/internal/preset"
	"maptex/internal/server"
)

const (
	defaultAddr = ":2222"
	hostKeyPath = "host_key"
	presetsDir  = "assets/presets"
)

func main() {
	debug := flag.Bool("debug", os.Getenv("DEBUG") == "1", "log generator details")
	dir := flag.String("presets", presetsDir, "directory of preset JSON files")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lshortfile)

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	grid.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Generate host key if it doesn't exist
	if err := ensureHostKey(hostKeyPath); err != nil {
		log.Fatalf("Host key error: %v", err)
	}

	// Load all presets from directory
	presets, err := preset.LoadDir(*dir)
	if err != nil {
		log.Printf("Could not load presets from %s: %v (using built-in presets)", *dir, err)
		presets = preset.Defaults()
	}
	for _, name := range preset.Names(presets) {
		log.Printf("Preset loaded: %s (%s, seed %d)", name, presets[name].Kind, presets[name].Seed)
	}

	gallery, err := server.NewGallery(presets)
	if err != nil {
		log.Fatalf("Gallery error: %v", err)
	}

	// Start SSH server (blocks)
	listenAddr := defaultAddr
	if port := os.Getenv("PORT"); port != "" {
		listenAddr = ":" + port
	}
	sshServer := server.NewSSHServer(listenAddr, hostKeyPath, gallery)
	log.Printf("Starting maptex preview, connect with: ssh -p %s <preset>@localhost", listenAddr[1:])
	if err := sshServer.Start(); err != nil {
		log.Fatalf("SSH server error: %v", err)
	}
}

func ensureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // key already exists
	}

	log.Println("Generating new host key...")
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, pemBlock)
}
