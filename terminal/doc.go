// Package terminal hosts the scene stage on a tcell screen.
//
// Each text cell shows two backing pixels with the upper half block: the
// foreground is the top pixel and the background the bottom one. A cell is
// CellW×CellH logical pixels, so a C×R terminal is a C·CellW × R·CellH viewport
// backed by a C × 2R pixel grid. Text overlays snap to the cell under their
// anchor and blend their background over the pixels they cover.
//
// Mouse reports arrive as button levels; the tracker in mouse.go turns them
// into press, drag and release edges for the drag controllers.
package terminal
