// Package pipeline runs the imagecloud render from input paths to the
// written image.
//
// # Stages
//
//  1. Load the text (OCR for image files).
//  2. Load the image and reject single-channel sources.
//  3. Downsample by the configured stride.
//  4. Detect edges when enabled, then build the exclusion mask.
//  5. Build the stopword set.
//  6. Count frequencies and lay out the cloud.
//  7. Recolor each word from the image under it.
//  8. Create the output directory and write the image.
//  9. Hand the result to the Presenter, if any.
//
// Every stage either succeeds or aborts the run; the output file is only
// written after all earlier stages succeeded. The context is checked
// between stages and between placed words.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger, nil)
//	opts := pipeline.DefaultOptions()
//	opts.TextPath = "speech.txt"
//	opts.ImagePath = "flag.png"
//	result, err := runner.Run(ctx, opts)
package pipeline
