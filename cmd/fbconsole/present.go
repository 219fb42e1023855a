package main

import (
	"errors"
	"image"

	"github.com/gogpu/fbcon/framebuffer"
)

// multiPresenter hands each frame to every presenter in turn.
type multiPresenter []framebuffer.Presenter

func (m multiPresenter) Present(img *image.RGBA) error {
	var errs []error
	for _, p := range m {
		if err := p.Present(img); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
