package cli

import (
	"image"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/statuscard/pkg/roster"
)

// Asset file names looked up in the configured assets directory. All are
// optional; the renderers draw without any missing piece.
const (
	assetParentHeader  = "parent_header.png"
	assetSearchBar     = "search_bar.png"
	assetBusyBadge     = "busy.png"
	assetSnoozeOnline  = "zzz_online.png"
	assetSnoozeGaming  = "zzz_gaming.png"
	assetDefaultAvatar = "default_avatar.png"
)

// loadAssets loads whatever card decorations exist in dir. An empty dir
// returns zero assets.
func loadAssets(dir string, logger *log.Logger) roster.Assets {
	if dir == "" {
		return roster.Assets{}
	}
	return roster.Assets{
		ParentHeader:  loadAsset(dir, assetParentHeader, logger),
		SearchBar:     loadAsset(dir, assetSearchBar, logger),
		BusyBadge:     loadAsset(dir, assetBusyBadge, logger),
		SnoozeOnline:  loadAsset(dir, assetSnoozeOnline, logger),
		SnoozeGaming:  loadAsset(dir, assetSnoozeGaming, logger),
		DefaultAvatar: loadAsset(dir, assetDefaultAvatar, logger),
	}
}

func loadAsset(dir, name string, logger *log.Logger) image.Image {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	img, err := imaging.Open(path)
	if err != nil {
		logger.Warn("asset unreadable", "path", path, "error", err)
		return nil
	}
	return img
}
