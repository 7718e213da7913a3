package tray

const iconSize = 16

// getIcon 16x16 32位 ICO 托盘图标（橙色圆底白色铃铛）
func getIcon() []byte {
	pixels := drawBell()

	imageSize := len(pixels)
	dataSize := 40 + imageSize

	ico := make([]byte, 0, 6+16+dataSize)
	// ICONDIR: reserved, type=1 (icon), count=1
	ico = append(ico, le16(0)...)
	ico = append(ico, le16(1)...)
	ico = append(ico, le16(1)...)

	// ICONDIRENTRY
	ico = append(ico, iconSize, iconSize, 0, 0)
	ico = append(ico, le16(1)...)  // planes
	ico = append(ico, le16(32)...) // bpp
	ico = append(ico, le32(uint32(dataSize))...)
	ico = append(ico, le32(22)...) // 6 + 16

	// BITMAPINFOHEADER，高度翻倍（XOR + AND 掩码）
	ico = append(ico, le32(40)...)
	ico = append(ico, le32(iconSize)...)
	ico = append(ico, le32(iconSize*2)...)
	ico = append(ico, le16(1)...)
	ico = append(ico, le16(32)...)
	ico = append(ico, make([]byte, 24)...) // compression, size, ppm, colors

	return append(ico, pixels...)
}

// drawBell BGRA 像素，自下而上
func drawBell() []byte {
	pixels := make([]byte, iconSize*iconSize*4)

	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			idx := ((iconSize-1-y)*iconSize + x) * 4

			cx, cy := float64(x)-7.5, float64(y)-7.5
			if cx*cx+cy*cy >= 56 {
				continue
			}

			// #F08C00
			b, g, r := byte(0x00), byte(0x8C), byte(0xF0)
			if inBell(x, y) {
				b, g, r = 0xFF, 0xFF, 0xFF
			}

			pixels[idx+0] = b
			pixels[idx+1] = g
			pixels[idx+2] = r
			pixels[idx+3] = 0xFF
		}
	}
	return pixels
}

func inBell(x, y int) bool {
	switch {
	case y == 3:
		return x >= 7 && x <= 8
	case y >= 4 && y <= 6:
		return x >= 6 && x <= 9
	case y >= 7 && y <= 9:
		return x >= 5 && x <= 10
	case y == 10:
		return x >= 4 && x <= 11
	case y == 12:
		return x >= 7 && x <= 8
	}
	return false
}

func le16(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

func le32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}
