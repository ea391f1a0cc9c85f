// Package imgvec computes fixed-length vector embeddings for images with a
// pretrained vision-transformer encoder. Instead of projecting the final
// layer's class token, it combines the last few layers' hidden states using
// the attention mass each patch token receives, which keeps the embedding
// sensitive to the whole frame.
//
// Quick start:
//
//	v, err := imgvec.New(imgvec.WithModelDir("models/"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer v.Close()
//
//	vecs, _ := v.ToEmbeddingsFromPaths("cat.jpg", "dog.png")
//	fmt.Println(len(vecs), len(vecs[0])) // 2 768
//
// Loading the model is expensive — create one instance and reuse it. The
// instance is safe for sequential use; the embedding computation itself is
// deterministic for identical inputs.
package imgvec
