package main

import (
	"flag"
	"log"
	"net/http"

	"todokeep/internal/config"
	"todokeep/internal/serverapp"
)

func main() {
	cfgPath := flag.String("config", "todokeep.yml", "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config:    cfg,
		StaticDir: "static",
		Logger:    log.Default(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	addr := cfg.Server.Addr
	log.Printf("listening on http://localhost%s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
