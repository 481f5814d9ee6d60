package templates

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"sort"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"tmpl/cards.yaml": {Data: []byte(`
card: '<div class="card">{content}</div>'
list:
  - '<ul>'
  - '<li>{content}</li>'
  - '</ul>'
`)},
		"tmpl/other.txt": {Data: []byte("ignored")},
	}

	store := New()
	names, err := store.LoadFS(fsys, "tmpl/*.yaml")
	if err != nil {
		t.Fatalf("LoadFS error: %v", err)
	}
	sort.Strings(names)
	if strings.Join(names, ",") != "card,list" {
		t.Errorf("names = %v", names)
	}

	got, _ := store.Render("list", map[string]any{"content": "a"})
	if got != "<ul><li>a</li></ul>" {
		t.Errorf("list = %q", got)
	}
}

func TestLoadFS_Recursive(t *testing.T) {
	fsys := fstest.MapFS{
		"tmpl/base.yaml":           {Data: []byte("base: '<b>{content}</b>'\n")},
		"tmpl/popovers/menu.yaml":  {Data: []byte("menu: '<nav>{content}</nav>'\n")},
		"tmpl/popovers/deep/x.yml": {Data: []byte("skipped: '<i></i>'\n")},
	}

	store := New()
	names, err := store.LoadFS(fsys, "tmpl/**/*.yaml")
	if err != nil {
		t.Fatalf("LoadFS error: %v", err)
	}
	sort.Strings(names)
	if strings.Join(names, ",") != "base,menu" {
		t.Errorf("names = %v", names)
	}
}

func TestLoadFS_BadDocument(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.yaml": {Data: []byte("card:\n  nested: map\n")},
	}
	_, err := New().LoadFS(fsys, "*.yaml")
	if err == nil {
		t.Fatal("expected error for mapping-valued template")
	}
	if !strings.Contains(err.Error(), "T004") {
		t.Errorf("error = %v, want T004", err)
	}
}

type fakeS3 struct {
	objects  map[string]string
	pageSize int
	getErr   error
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if tok := aws.ToString(in.ContinuationToken); tok != "" {
		for i, k := range keys {
			if k == tok {
				start = i
			}
		}
	}
	end := start + f.pageSize
	if end > len(keys) {
		end = len(keys)
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(keys[end])
	}
	return out, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	body := f.objects[aws.ToString(in.Key)]
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewBufferString(body))}, nil
}

func TestLoadS3(t *testing.T) {
	client := &fakeS3{
		pageSize: 1,
		objects: map[string]string{
			"tmpl/":           "",
			"tmpl/card.html":  `<div class="card">{content}</div>`,
			"tmpl/badge.html": `<span>{content}</span>`,
			"other/skip.html": "nope",
		},
	}

	store := New()
	names, err := store.LoadS3(context.Background(), client, "bucket", "tmpl/")
	if err != nil {
		t.Fatalf("LoadS3 error: %v", err)
	}
	sort.Strings(names)
	if strings.Join(names, ",") != "badge,card" {
		t.Errorf("names = %v", names)
	}
	if _, ok := store.Lookup("skip"); ok {
		t.Error("object outside prefix should not be registered")
	}
	got, _ := store.Render("card", map[string]any{"content": "x"})
	if got != `<div class="card">x</div>` {
		t.Errorf("card = %q", got)
	}
}

func TestLoadS3_GetError(t *testing.T) {
	cause := stderrors.New("access denied")
	client := &fakeS3{
		pageSize: 10,
		objects:  map[string]string{"t/a.html": "a"},
		getErr:   cause,
	}
	_, err := New().LoadS3(context.Background(), client, "bucket", "t/")
	if !stderrors.Is(err, cause) {
		t.Errorf("error = %v, want wrapped cause", err)
	}
}

func TestNewS3Client(t *testing.T) {
	client := NewS3Client(S3Options{Region: "eu-west-1", Endpoint: "http://localhost:9000", UsePathStyle: true})
	opts := client.Options()
	if opts.Region != "eu-west-1" || !opts.UsePathStyle {
		t.Errorf("options = %+v", opts)
	}
	if aws.ToString(opts.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("endpoint = %q", aws.ToString(opts.BaseEndpoint))
	}
}
