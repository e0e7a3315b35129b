package image

import (
	"context"
	"fmt"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	cfg "github.com/feichai0017/text-extractor/config"
	"github.com/feichai0017/text-extractor/internal/extractor"
	"github.com/feichai0017/text-extractor/pkg/logger"
	"github.com/feichai0017/text-extractor/pkg/textenc"
)

type textractClient struct {
	client *textract.Client
}

func newTextractClient(ctx context.Context) (*textractClient, error) {
	tc := cfg.GetTextractConfig()

	creds := credentials.NewStaticCredentialsProvider(
		tc.AccessKey,
		tc.SecretKey,
		"",
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(tc.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &textractClient{client: textract.NewFromConfig(awsCfg)}, nil
}

// awsTextract sends the image to the AWS Textract DetectDocumentText API
// and joins the detected lines. The client is built lazily on first use so
// local-only deployments never touch AWS configuration.
func (e *Extractor) awsTextract(ctx context.Context, path string) (textenc.Content, error) {
	e.textractOnce.Do(func() {
		e.textract, e.textractErr = newTextractClient(ctx)
	})
	if e.textractErr != nil {
		return textenc.Content{}, &extractor.Error{
			Format: "image",
			Path:   path,
			Msg:    "textract client unavailable",
			Err:    e.textractErr,
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return textenc.Content{}, &extractor.Error{
			Format: "image",
			Path:   path,
			Msg:    "failed to read file",
			Err:    err,
		}
	}

	out, err := e.textract.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: data},
	})
	if err != nil {
		return textenc.Content{}, &extractor.Error{
			Format: "image",
			Path:   path,
			Msg:    "textract request failed",
			Err:    err,
		}
	}

	lines := make([]string, 0, len(out.Blocks))
	for _, block := range out.Blocks {
		if block.BlockType == types.BlockTypeLine && block.Text != nil {
			lines = append(lines, *block.Text)
		}
	}

	e.logger.Debug("Textract detection complete",
		logger.String("file", path),
		logger.Int("lines", len(lines)),
	)

	return textenc.Text(strings.Join(lines, "\n")), nil
}
