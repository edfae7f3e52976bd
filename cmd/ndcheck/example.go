//go:build !noexample

package main

// Link the example project so its module can be imported.
import _ "github.com/LynnColeArt/ndwrap/exampleproject"
