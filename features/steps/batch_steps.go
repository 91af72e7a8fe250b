//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	appextraction "audio-extractor/application/extraction"
	"audio-extractor/cmd"
	"audio-extractor/infrastructure/logging"

	"github.com/cucumber/godog"
)

// batchContext reuses the extract scenario's temp dir and fake ffmpeg
type batchContext struct {
	output bytes.Buffer
	err    error
}

var SharedBatchContext = &batchContext{}

func InitializeBatchScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedBatchContext = &batchContext{}
		return c, nil
	})

	ctx.Step(`^an ffmpeg that rejects "([^"]*)"$`, anFFmpegThatRejects)
	ctx.Step(`^I batch extract "([^"]*)" into "([^"]*)" with concurrency (\d+)$`, iBatchExtractInto)
	ctx.Step(`^the batch should report "([^"]*)"$`, theBatchShouldReport)
	ctx.Step(`^the batch should fail$`, theBatchShouldFail)
	ctx.Step(`^the batch should succeed$`, theBatchShouldSucceed)
}

func anFFmpegThatRejects(name string) error {
	return getExtractContext().writeFFmpeg(fmt.Sprintf(`case "$2" in
*%s) echo "Invalid data found when processing input" >&2; exit 1 ;;
esac
for last; do :; done
printf 'RIFF----WAVEfmt ' > "$last"`, name))
}

func iBatchExtractInto(inputDir, outputDir string, concurrency int) error {
	e := getExtractContext()
	b := SharedBatchContext

	engine := appextraction.New(appextraction.Options{
		FFmpegPath: e.ffmpegPath,
		Logger:     logging.Discard(),
	})
	b.err = cmd.RunBatchWithDependencies(context.Background(), engine, appextraction.BatchInput{
		InputDir:    e.path(inputDir),
		OutputDir:   e.path(outputDir),
		Concurrency: concurrency,
	}, false, &b.output)
	return nil
}

func theBatchShouldReport(text string) error {
	out := SharedBatchContext.output.String()
	if !strings.Contains(out, text) {
		return fmt.Errorf("expected batch output to contain %q, got:\n%s", text, out)
	}
	return nil
}

func theBatchShouldFail() error {
	if SharedBatchContext.err == nil {
		return fmt.Errorf("expected batch to fail")
	}
	return nil
}

func theBatchShouldSucceed() error {
	if err := SharedBatchContext.err; err != nil {
		return fmt.Errorf("expected batch to succeed, got: %w", err)
	}
	return nil
}
