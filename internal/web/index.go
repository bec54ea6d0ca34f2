package web

// indexHTML is the single-page form served at /. It posts the URL to
// /analyze and renders the JSON response inline, with a working indicator
// while the pipeline blocks.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Accent Detector</title>
<style>
  body { font-family: sans-serif; max-width: 42rem; margin: 3rem auto; padding: 0 1rem; }
  input[type=url] { width: 70%; padding: .5rem; }
  button { padding: .5rem 1rem; }
  #status { color: #666; margin-top: 1rem; }
  #result { margin-top: 1rem; white-space: pre-wrap; }
  .error { color: #b00; }
</style>
</head>
<body>
<h1>Accent Detector from Video URL</h1>
<form id="form">
  <input type="url" id="url" name="url" placeholder="Enter video URL" required>
  <button type="submit">Analyze Accent</button>
</form>
<p id="status"></p>
<div id="result"></div>
<script>
const form = document.getElementById('form');
const status = document.getElementById('status');
const result = document.getElementById('result');
form.addEventListener('submit', async (e) => {
  e.preventDefault();
  result.textContent = '';
  status.textContent = 'Processing... this may take a few minutes depending on video length.';
  try {
    const resp = await fetch('/analyze', {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify({url: document.getElementById('url').value})
    });
    const data = await resp.json();
    status.textContent = '';
    if (!resp.ok) {
      result.innerHTML = '<p class="error"></p>';
      result.querySelector('.error').textContent = 'Error: ' + data.error;
      return;
    }
    result.innerHTML = '<h2>Accent</h2><p></p><h2>Transcription</h2><p></p>';
    const ps = result.querySelectorAll('p');
    ps[0].textContent = data.accent.label + ' (' + data.accent.confidence + '%). ' + data.accent.explanation;
    ps[1].textContent = data.transcript;
  } catch (err) {
    status.textContent = '';
    result.innerHTML = '<p class="error"></p>';
    result.querySelector('.error').textContent = 'Error: ' + err;
  }
});
</script>
</body>
</html>
`
