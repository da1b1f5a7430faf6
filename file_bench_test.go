package id3scan_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/simonhull/id3scan"
)

// BenchmarkReadFile measures the performance of reading a single file.
func BenchmarkReadFile(b *testing.B) {
	path := createTaggedMP3(b, b.TempDir(), "bench.mp3")

	b.ReportAllocs()

	for b.Loop() {
		if _, err := id3scan.ReadFile(path, id3scan.WithSink(nil)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkReadBytes measures parsing without file system overhead.
func BenchmarkReadBytes(b *testing.B) {
	data, err := os.ReadFile(createTaggedMP3(b, b.TempDir(), "bench.mp3"))
	if err != nil {
		b.Fatal(err)
	}
	reader := bytes.NewReader(data)

	b.ReportAllocs()

	for b.Loop() {
		if _, err := id3scan.Read(reader, int64(len(data)), "bench.mp3", id3scan.WithSink(nil)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkReadManyParallel measures ReadMany scalability.
func BenchmarkReadManyParallel(b *testing.B) {
	for _, n := range []int{1, 5, 10, 20, 50} {
		b.Run(fmt.Sprintf("%02d_files", n), func(b *testing.B) {
			dir := b.TempDir()
			paths := make([]string, n)
			for i := range paths {
				paths[i] = createTaggedMP3(b, dir, fmt.Sprintf("bench%02d.mp3", i))
			}

			ctx := context.Background()

			b.ReportAllocs()

			for b.Loop() {
				if _, err := id3scan.ReadMany(ctx, paths, id3scan.WithSink(nil)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
