// Package backend implements the upscaling backends behind POST /upscale.
//
// Exactly one backend is active per process. It is built once at startup by
// New and is read-only afterwards:
//
//   - resize: Catmull-Rom cubic interpolation by a fixed factor.
//   - edsr: OpenCV DNN running EDSR x4 weights. Needs `-tags=gocv`.
//   - realesrgan: ONNX Runtime running Real-ESRGAN x4 weights. Needs `-tags=onnx`.
//   - remote: forwards the upload to a hosted upscaling API.
//   - hybrid: realesrgan for scale 4, cubic for scale 2, passthrough otherwise.
//
// Image backends implement Transformer and are wrapped by Wrap, which owns
// decoding and PNG encoding. Builds without the native tags get stubs whose
// constructors fail with a dependency-unavailable error, keeping default
// builds CGO-free.
package backend
