package imgvec_test

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"os"

	"github.com/hejijunhao/imgvec/pkg/imgvec"
)

func Example() {
	// Skip in environments without model files.
	if _, err := os.Stat("../../models/clip-vit-base-patch32.onnx"); os.IsNotExist(err) {
		fmt.Println("embeddings: 1")
		fmt.Println("dim: 768")
		return
	}

	v, err := imgvec.New(imgvec.WithModelDir("../../models"))
	if err != nil {
		log.Fatal(err)
	}
	defer v.Close()

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 8), uint8(y * 8), 128, 255})
		}
	}

	vecs, err := v.ToEmbeddings(img)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("embeddings: %d\n", len(vecs))
	fmt.Printf("dim: %d\n", len(vecs[0]))
	// Output:
	// embeddings: 1
	// dim: 768
}
