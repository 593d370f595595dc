// Package telemetry собирает тайминги и счетчики этапов конвейера
// сцены: построение, запись, чтение, инстанцирование.
package telemetry

import (
	"log"
	"sync"
	"time"
)

// StageTiming - измеренный этап конвейера
type StageTiming struct {
	Stage    string
	Duration time.Duration
}

// Collector накапливает тайминги этапов и счетчики
type Collector struct {
	mu       sync.Mutex
	timings  []StageTiming
	counters map[string]int
}

// NewCollector создает пустой сборщик
func NewCollector() *Collector {
	return &Collector{counters: make(map[string]int)}
}

// Stage замеряет длительность fn и запоминает ее под именем stage
func (c *Collector) Stage(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	c.mu.Lock()
	c.timings = append(c.timings, StageTiming{Stage: stage, Duration: elapsed})
	c.mu.Unlock()

	if err != nil {
		log.Printf("[Telemetry] Этап %q завершился ошибкой за %s: %v", stage, elapsed, err)
	}
	return err
}

// Count увеличивает счетчик name на delta
func (c *Collector) Count(name string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name] += delta
}

// Counter возвращает значение счетчика
func (c *Collector) Counter(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[name]
}

// Timings возвращает копию списка замеров в порядке выполнения
func (c *Collector) Timings() []StageTiming {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]StageTiming(nil), c.timings...)
}

// Print выводит сводку в лог
func (c *Collector) Print() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range c.timings {
		log.Printf("[Telemetry] %-12s %s", t.Stage, t.Duration)
	}
	for name, value := range c.counters {
		log.Printf("[Telemetry] %-12s %d", name, value)
	}
}
