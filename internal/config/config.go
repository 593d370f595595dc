// Package config - настройки сервиса сцен: значения по умолчанию в коде
// плюс необязательный TOML-файл поверх них.
package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// ServerConfig содержит настройки websocket-сервера сцен
type ServerConfig struct {
	// Адрес прослушивания, например ":8080"
	ListenAddr string `toml:"listen_addr"`

	// Путь к сохраненной сцене. Пустая строка - сервер стартует
	// с эталонной сценой, собранной в памяти.
	ScenePath string `toml:"scene_path"`
}

// WorldConfig содержит настройки мира симуляции
type WorldConfig struct {
	GravityX float32 `toml:"gravity_x"`
	GravityY float32 `toml:"gravity_y"`
	GravityZ float32 `toml:"gravity_z"`
}

// Config объединяет все конфигурации
type Config struct {
	Server ServerConfig `toml:"server"`
	World  WorldConfig  `toml:"world"`
}

var (
	current Config
	mu      sync.RWMutex
)

// Инициализация конфигурации по умолчанию
func init() {
	current = Config{
		Server: ServerConfig{
			ListenAddr: ":8080",
			ScenePath:  "",
		},
		World: WorldConfig{
			GravityX: 0.0,
			GravityY: -9.81,
			GravityZ: 0.0,
		},
	}
}

// Get возвращает текущую конфигурацию
func Get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Set устанавливает новую конфигурацию
func Set(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	current = cfg
}

// Load накладывает TOML-файл path поверх текущей конфигурации
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	cfg := current
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	current = cfg
	return nil
}
