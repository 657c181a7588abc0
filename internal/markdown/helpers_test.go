package markdown

import "github.com/yuin/goldmark/renderer"

type nopRenderer struct{}

func (nopRenderer) RegisterFuncs(renderer.NodeRendererFuncRegisterer) {}
