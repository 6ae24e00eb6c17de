// Command photosift finds near-duplicate images in a directory tree, copies
// them into reviewable groups, and deletes the originals the user discards
// from the review tree.
package main
