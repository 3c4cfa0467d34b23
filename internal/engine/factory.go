package engine

import (
	"fmt"
	"os"
	"path/filepath"
)

// Detect classifies a project root per §4.7's ordered priority: Wolf dump
// tree, encrypted Wolf archive, RPG Maker MZ, RPG Maker MV, or failure.
func Detect(root string) (Handler, error) {
	if isDir(filepath.Join(root, "dump", "db")) &&
		isDir(filepath.Join(root, "dump", "mps")) &&
		isDir(filepath.Join(root, "dump", "common")) {
		return NewWolfRPGHandler(root), nil
	}
	if isFile(filepath.Join(root, "Data.wolf")) {
		return NewWolfRPGHandler(root), nil
	}
	if isFile(filepath.Join(root, "package.json")) &&
		isDir(filepath.Join(root, "data")) &&
		!isDir(filepath.Join(root, "www", "data")) &&
		filepath.Base(root) != "www" {
		return NewRpgMakerHandler(RpgMakerMZ, root), nil
	}
	if isDir(filepath.Join(root, "www", "data")) {
		return NewRpgMakerHandler(RpgMakerMV, root), nil
	}
	return nil, fmt.Errorf("engine: %s does not match any recognized project shape "+
		"(expected dump/{db,mps,common}, Data.wolf, package.json+data/, or www/data/)", root)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
