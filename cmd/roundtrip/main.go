// Команда roundtrip прогоняет полный конвейер сцены:
// построение -> запись -> сброс оригинала -> чтение -> инстанцирование.
package main

import (
	"bytes"
	"flag"
	"log"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"x-scene/internal/config"
	"x-scene/internal/objectstream"
	"x-scene/internal/scene"
	"x-scene/internal/telemetry"
	"x-scene/internal/world"
)

func main() {
	outPath := flag.String("out", "", "сохранить сериализованную сцену в файл")
	flag.Parse()

	collector := telemetry.NewCollector()

	var original *scene.Scene
	err := collector.Stage("build", func() error {
		var err error
		original, err = scene.BuildSampleScene()
		return err
	})
	if err != nil {
		log.Fatalf("[Roundtrip] Ошибка построения сцены: %v", err)
	}

	var buf bytes.Buffer
	err = collector.Stage("write", func() error {
		return objectstream.Write(&buf, original)
	})
	if err != nil {
		log.Fatalf("[Roundtrip] Ошибка записи сцены: %v", err)
	}
	collector.Count("stream_bytes", buf.Len())

	if *outPath != "" {
		if err := os.WriteFile(*outPath, buf.Bytes(), 0o644); err != nil {
			log.Fatalf("[Roundtrip] Ошибка сохранения потока: %v", err)
		}
		log.Printf("[Roundtrip] Поток сохранен в %s", *outPath)
	}

	// Оригинал сбрасывается до чтения: восстановленная сцена
	// не должна разделять с ним ни одного объекта
	original = nil

	var restored *scene.Scene
	err = collector.Stage("read", func() error {
		var err error
		restored, err = objectstream.Read(bytes.NewReader(buf.Bytes()))
		return err
	})
	if err != nil {
		log.Fatalf("[Roundtrip] Ошибка чтения сцены: %v", err)
	}

	cfg := config.Get()
	w := world.NewWorld()
	w.SetGravity(mgl32.Vec3{cfg.World.GravityX, cfg.World.GravityY, cfg.World.GravityZ})

	err = collector.Stage("instantiate", func() error {
		return restored.Instantiate(w)
	})
	if err != nil {
		log.Fatalf("[Roundtrip] Ошибка инстанцирования: %v", err)
	}

	bodies, constraints, softBodies := w.Counts()
	collector.Count("bodies", bodies)
	collector.Count("constraints", constraints)
	collector.Count("soft_bodies", softBodies)

	log.Printf("[Roundtrip] Готово: %d тел, %d ограничений, %d мягких тел",
		bodies, constraints, softBodies)
	collector.Print()
}
