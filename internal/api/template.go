package api

// indexHTML is the entire UI: a bare two-field upload form posting to
// the compose endpoint. All real work happens server-side.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Image Background Replacement Tool</title>
  <style>
    body { font-family: sans-serif; max-width: 40rem; margin: 3rem auto; }
    label { display: block; margin-top: 1rem; }
    button { margin-top: 1.5rem; padding: 0.5rem 1.5rem; }
    .hint { color: #666; font-size: 0.9rem; }
  </style>
</head>
<body>
  <h1>Image Background Replacement Tool</h1>
  <p>Upload a foreground and background image to create a composite image.</p>
  <p class="hint">Allowed formats: {{range $i, $f := .AllowedFormats}}{{if $i}}, {{end}}{{$f}}{{end}}.
     Maximum size: {{.MaxFileSizeMB}}MB per file.</p>
  <form action="/v1/compose" method="post" enctype="multipart/form-data">
    <label>Foreground image
      <input type="file" name="foreground" required>
    </label>
    <label>Background image
      <input type="file" name="background" required>
    </label>
    <button type="submit">Compose</button>
  </form>
</body>
</html>
`
