package handlers

// configPage is the static configuration page. Styling mirrors the
// skill's on-screen templates.
const configPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>AI Pro Shopping - Settings</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; background: linear-gradient(135deg, #0f0f23, #1a1a2e, #16213e); color: #fff; margin: 0; padding: 40px; }
  .card { max-width: 480px; margin: 0 auto; background: rgba(255,255,255,0.05); border-radius: 20px; padding: 30px; }
  h1 { color: #00d4ff; font-size: 24px; }
  label { display: block; margin-top: 20px; color: #cbd5e0; }
  input, select { width: 100%; padding: 10px; margin-top: 6px; border-radius: 10px; border: none; }
  button { margin-top: 25px; width: 100%; padding: 14px; border: none; border-radius: 12px; background: #00ff88; color: #0f0f23; font-weight: bold; font-size: 16px; cursor: pointer; }
  #result { margin-top: 20px; color: #00ff88; }
</style>
</head>
<body>
<div class="card">
  <h1>AI Pro Shopping Settings</h1>
  <form id="config">
    <label>Alexa User ID
      <input name="user_id" required placeholder="amzn1.ask.account....">
    </label>
    <label>Preferred AI assistant
      <select name="provider">
        <option value="openai">OpenAI (GPT)</option>
        <option value="anthropic">Claude</option>
        <option value="gemini">Gemini</option>
        <option value="bedrock">Bedrock</option>
      </select>
    </label>
    <label>Order alert email (optional)
      <input name="alert_email" type="email" placeholder="you@example.com">
    </label>
    <button type="submit">Save</button>
  </form>
  <div id="result"></div>
</div>
<script>
document.getElementById('config').addEventListener('submit', async (e) => {
  e.preventDefault();
  const data = Object.fromEntries(new FormData(e.target));
  const resp = await fetch('/api/configure', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify(data)
  });
  const out = await resp.json();
  document.getElementById('result').textContent = out.ok
    ? 'Saved! ' + (out.confirm_pending ? 'Check your inbox to confirm order alerts.' : '')
    : 'Error: ' + (out.error || 'unknown');
});
</script>
</body>
</html>
`
