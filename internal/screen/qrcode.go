package screen

import (
	"image/color"

	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSizePx = 128

// DrawQR renders a QR code for the given payload through the screen
// primitives, using the image anchor rules for placement. Handy for
// pointing a phone at a diagnostics report in the pit. An empty payload
// draws nothing.
func (d *Display) DrawQR(payload string, x, y, sizePx int) error {
	if payload == "" {
		return nil
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}

	qrCode, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return err
	}
	img := qrCode.Image(sizePx)

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	x0 := resolveAnchor(x, w, Width)
	y0 := resolveAnchor(y, h, Height)

	// White quiet zone behind the code, dark modules as pixels.
	oldEraser := d.dev.Eraser()
	d.dev.SetEraser(0xffffff)
	d.dev.EraseRect(x0, y0, x0+w-1, y0+h-1)
	d.dev.SetEraser(oldEraser)

	d.dev.SetPen(0x000000)
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			c := color.GrayModel.Convert(img.At(bounds.Min.X+px, bounds.Min.Y+py)).(color.Gray)
			if c.Y < 128 {
				d.dev.DrawPixel(x0+px, y0+py)
			}
		}
	}
	return nil
}
