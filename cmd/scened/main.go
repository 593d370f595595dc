package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"x-scene/internal/config"
	"x-scene/internal/objectstream"
	"x-scene/internal/scene"
	"x-scene/internal/transport/ws"
)

func main() {
	configPath := flag.String("config", "", "путь к TOML-файлу конфигурации")
	flag.Parse()

	if *configPath != "" {
		if err := config.Load(*configPath); err != nil {
			log.Fatalf("[Scened] Ошибка загрузки конфигурации: %v", err)
		}
	}
	cfg := config.Get()

	// Начальная сцена: из файла либо эталонная
	var initial *scene.Scene
	if cfg.Server.ScenePath != "" {
		f, err := os.Open(cfg.Server.ScenePath)
		if err != nil {
			log.Fatalf("[Scened] Ошибка открытия сцены %s: %v", cfg.Server.ScenePath, err)
		}
		initial, err = objectstream.Read(f)
		f.Close()
		if err != nil {
			log.Fatalf("[Scened] Ошибка чтения сцены %s: %v", cfg.Server.ScenePath, err)
		}
		log.Printf("[Scened] Загружена сцена из %s", cfg.Server.ScenePath)
	} else {
		var err error
		initial, err = scene.BuildSampleScene()
		if err != nil {
			log.Fatalf("[Scened] Ошибка построения эталонной сцены: %v", err)
		}
		log.Printf("[Scened] Собрана эталонная сцена")
	}

	log.Printf("[Scened] Сцена: %d тел, %d ограничений, %d мягких тел",
		len(initial.Bodies), len(initial.Constraints), len(initial.SoftBodies))

	service := ws.NewSceneService(initial)
	http.HandleFunc("/ws", service.HandleWS)

	log.Printf("[Scened] Слушаем %s", cfg.Server.ListenAddr)
	if err := http.ListenAndServe(cfg.Server.ListenAddr, nil); err != nil {
		log.Fatalf("[Scened] Ошибка сервера: %v", err)
	}
}
